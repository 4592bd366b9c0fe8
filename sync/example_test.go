package sync_test

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	stdsync "sync"

	"github.com/MasterOfBinary/gochunk/chunker"
	"github.com/MasterOfBinary/gochunk/sync"
)

// Example demonstrates blocking writes from concurrent callers.
func Example() {
	var (
		mu      stdsync.Mutex
		written []string
	)

	write := func(_ context.Context, names []string) error {
		mu.Lock()
		defer mu.Unlock()
		written = append(written, strings.Join(names, "+"))
		return nil
	}
	sizer := func(_ context.Context, name string) (float64, error) {
		return float64(len(name)), nil
	}

	w, err := sync.NewWriter(context.Background(), chunker.Limits{CountLimit: 2, SizeLimit: 100}, sizer, write)
	if err != nil {
		log.Fatal(err)
	}

	var wg stdsync.WaitGroup
	for _, name := range []string{"ada", "bob", "cy", "dee"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := w.Write(context.Background(), name); err != nil {
				log.Print(err)
			}
		}(name)
	}
	wg.Wait()

	if err := w.Close(context.Background()); err != nil {
		log.Fatal(err)
	}

	sort.Strings(written)
	fmt.Println(len(written), "batches")

	// Output:
	// 2 batches
}
