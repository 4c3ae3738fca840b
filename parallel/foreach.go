// Package parallel contains the bounded-concurrency loop used for batch
// prediction, and hardware-derived worker defaults.
package parallel

import "sync"

// ForEach executes body(i) for i in [0, length) with at most limit
// goroutines in flight.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// Chunks splits [0, length) into at most n contiguous ranges of near-equal
// size. Returned ranges are [start, end) pairs covering every index once.
func Chunks(length, n int) [][2]int {
	if length <= 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > length {
		n = length
	}
	out := make([][2]int, 0, n)
	size := length / n
	rem := length % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}
