// Package sync provides a blocking write API built on top of the chunker
// package. Each call to Writer.Write returns only after the batch carrying its
// item has been written, and returns that batch's error, so callers get the
// efficiency of batching with the feel of a direct call.
//
// Basic usage:
//
//	// Define a function that writes a batch
//	write := func(ctx context.Context, events []Event) error {
//		return client.PutEvents(ctx, events)
//	}
//
//	w, err := sync.NewWriter(ctx, chunker.Limits{CountLimit: 500, SizeLimit: 5 << 20}, sizer, write)
//	if err != nil {
//		return err
//	}
//	defer w.Close(ctx)
//
//	// Called from many request handlers at once
//	err = w.Write(ctx, event)
//
// A batch is only written when it is full or when Close is called, so Write is
// meant for many concurrent callers. A single goroutine that wants to keep
// going without waiting for its batch can use Submit and check the returned
// channels later.
package sync
