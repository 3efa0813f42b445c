package replay

import (
	"runtime"
	"sync"
)

// DecodeEach decodes the given replay files across a bounded worker pool and
// invokes fn once per file. Decodes share nothing; fn runs on worker
// goroutines and may be called concurrently, so anything it touches beyond
// its arguments needs the caller's own synchronization. workers <= 0 means
// one worker per CPU.
func DecodeEach(paths []string, workers int, fn func(path string, r *Replay, err error)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers <= 1 {
		for _, path := range paths {
			r, err := ParseFile(path)
			fn(path, r, err)
		}
		return
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for path := range jobs {
				r, err := ParseFile(path)
				fn(path, r, err)
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
}
