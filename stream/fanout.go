package stream

import "sync"

// fanOut runs fn over data split in workers contiguous chunks, one goroutine per chunk,
// and returns once every call completed.
func fanOut[T any](workers int, data []T, fn func(item T)) {
	if len(data) == 0 {
		return
	}
	workers = max(1, min(workers, len(data)))

	var wg sync.WaitGroup
	chunkSize := (len(data) + workers - 1) / workers

	for start := 0; start < len(data); start += chunkSize {
		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			for _, item := range chunk {
				fn(item)
			}
		}(data[start:min(start+chunkSize, len(data))])
	}
	wg.Wait()
}
