// Package source feeds existing collections of items into a chunker.
//
// A chunker accepts one item per Enqueue call. The helpers here loop over a
// channel or slice for you, stop at the first error, and report how many items
// were accepted:
//
//	records := make(chan Record)
//	go produce(records) // closes records when done
//
//	n, err := source.FromChannel(ctx, records, c)
//	if err != nil {
//		log.Printf("stopped after %d records: %v", n, err)
//	}
//	err = c.OnIdle(ctx)
package source
