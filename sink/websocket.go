package sink

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultWriteTimeout bounds a single WebSocket write when the context has no
// earlier deadline.
const DefaultWriteTimeout = 10 * time.Second

// WebSocketWriter sends each batch as a single JSON array text message.
type WebSocketWriter[T any] struct {
	// mu serializes writes; gorilla/websocket supports one concurrent writer.
	mu      sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
}

// NewWebSocketWriter creates a WebSocketWriter on conn. A zero timeout uses
// DefaultWriteTimeout.
func NewWebSocketWriter[T any](conn *websocket.Conn, timeout time.Duration) *WebSocketWriter[T] {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &WebSocketWriter[T]{conn: conn, timeout: timeout}
}

// Write implements chunker.WriterFunc.
func (w *WebSocketWriter[T]) Write(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(w.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return w.conn.WriteJSON(items)
}

// Close sends a close frame and closes the connection.
func (w *WebSocketWriter[T]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return w.conn.Close()
}
