// Package chunker groups a stream of items into batches that never exceed a
// count limit or a cumulative size limit, and hands each batch to a writer
// exactly once. The main type is Chunker, which can be created using New.
//
// A Chunker owns a single background goroutine. Producers call Enqueue, which
// blocks until that goroutine has taken the item, so a slow writer slows the
// producers down instead of letting items pile up in memory. For every item the
// goroutine:
//
//   - computes its size with the SizerFunc,
//   - writes the pending batch first if the batch is already full, or if adding
//     the item would push the pending size over SizeLimit,
//   - appends the item, and writes the batch right away if that made it full.
//
// When the input ends, any remaining items are written as a final batch.
//
// A single item larger than SizeLimit cannot be split, so it is written on its
// own as a batch of one. Every other batch satisfies both limits.
//
// Writes never overlap: batch N+1 is not started until the writer has returned
// for batch N, and batches are written in the order their items were taken.
//
// Writer errors do not stop the Chunker and are never returned to producers.
// They are collected in order and can be read with Errors:
//
//	c, err := chunker.New(ctx, chunker.Limits{CountLimit: 500, SizeLimit: 5 << 20}, sizer, writer)
//	if err != nil {
//		return err
//	}
//
//	for _, rec := range records {
//		if err := c.Enqueue(ctx, rec); err != nil {
//			return err
//		}
//	}
//
//	// OnIdle must be called, or the last batch may never be written.
//	if err := c.OnIdle(ctx); err != nil {
//		return err
//	}
//	for _, err := range c.Errors() {
//		log.Print(err)
//	}
//
// A failing SizerFunc is fatal: the Chunker writes what it had already
// accepted, stops accepting items, and OnIdle returns a *SizerError.
package chunker
