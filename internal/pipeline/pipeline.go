// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"shaccel-core/accel"
	"shaccel-core/driver"
)

// Job is one input to hash, tagged with its submission index so output
// order stays deterministic whatever the fan-out.
type Job struct {
	Index int
	Name  string
	Data  []byte
}

// Result is one finished digest.
type Result struct {
	Index  int
	Name   string
	Engine int
	Digest [driver.Size]byte
	Bytes  int
	Blocks uint64
}

// ForEachDigest hashes every job through the accelerator and calls visit in
// submission order. One worker goroutine runs per requested instance, each
// owning its own driver on that instance's base: the pairs share no mutable
// state, so two workers need no locking between them. It returns the first
// error encountered (including context cancellation).
func ForEachDigest(
	ctx context.Context,
	acc *accel.Dispatcher,
	engines []int,
	jobs []Job,
	visit func(Result) error,
) error {
	if len(engines) == 0 {
		engines = []int{0}
	}

	in := make(chan Job, len(engines)*2)
	results := make(chan Result, len(engines)*2)

	// Workers: one per accelerator instance.
	var wg sync.WaitGroup
	wg.Add(len(engines))
	for _, e := range engines {
		go func(e int) {
			defer wg.Done()
			d := driver.New(acc, accel.Base(e))
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-in:
					if !ok {
						return
					}
					d.Init()
					d.Update(j.Data)
					sum := d.Final()
					r := Result{
						Index:  j.Index,
						Name:   j.Name,
						Engine: e,
						Digest: sum,
						Bytes:  len(j.Data),
						Blocks: d.Blocks(),
					}
					select {
					case results <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}(e)
	}

	// Collector: re-establish submission order before visiting.
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]Result, len(engines)*2)
		next := 0
		for r := range results {
			if cerr != nil {
				continue
			}
			pending[r.Index] = r
			for {
				rr, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := visit(rr); err != nil && cerr == nil {
					cerr = err
				}
				next++
			}
		}
	}()

	// Feed work.
feed:
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case in <- j:
		}
	}

	close(in)
	wg.Wait()
	close(results)
	cwg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return cerr
}
