// Package batch splits payload lists into venue-size-limited chunks and
// submits them concurrently while keeping results in input order.
package batch

import (
	"context"
	"errors"
	"sync"
)

var ErrBadSize = errors.New("batch size must be positive")

// Chunk partitions items into contiguous chunks of size; the final chunk may
// be smaller. Chunk boundaries follow input order.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Dispatch submits every chunk concurrently and returns per-chunk results in
// chunk order, not completion order. If any chunk fails the whole dispatch
// fails; no partial success is reported. The size limit is the caller's
// venue constant, never decided here.
func Dispatch[T, R any](ctx context.Context, items []T, size int, submit func(context.Context, []T) (R, error)) ([]R, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	chunks := Chunk(items, size)
	results := make([]R, len(chunks))
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = submit(ctx, chunks[i])
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
