// Package sink contains ready-made sizers and writers for use with the chunker
// and sync packages.
//
// Sizers:
//
//   - JSONSizer measures an item by the length of its JSON encoding.
//   - BytesSizer and StringSizer measure raw payloads.
//
// Writers:
//
//   - RedisWriter appends each batch to a Redis list or stream in a single
//     pipelined round trip.
//   - WebSocketWriter sends each batch as one JSON array message.
package sink
