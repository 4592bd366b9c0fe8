// Package queue contains Handoff, a single-consumer queue with no internal
// buffering. A producer calling Enqueue is suspended until the consumer has
// taken that exact item, so producers can never run ahead of the consumer.
//
// Handoff is the input stage of the chunker package, but it can be used on its
// own wherever strict backpressure between goroutines is needed:
//
//	q := queue.NewHandoff[string]()
//
//	go func() {
//		defer q.Done()
//		for _, s := range lines {
//			if err := q.Enqueue(ctx, s); err != nil {
//				return
//			}
//		}
//	}()
//
//	for s := range q.All(ctx) {
//		fmt.Println(s)
//	}
//
// Done marks the end of the stream. Producers that have not yet placed their
// item fail with ErrClosed; an item that is already mid-handoff is still taken
// by the consumer, after which Take reports io.EOF.
package queue
