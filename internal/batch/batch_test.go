package batch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChunkSizes(t *testing.T) {
	items := make([]int, 23)
	chunks := Chunk(items, 10)
	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}
	want := []int{10, 10, 3}
	for i, c := range chunks {
		if len(c) != want[i] {
			t.Fatalf("chunk %d size = %d, want %d", i, len(c), want[i])
		}
	}
	if got := Chunk([]int{}, 10); got != nil {
		t.Fatalf("empty input should produce no chunks, got %d", len(got))
	}
}

func TestDispatchPreservesChunkOrder(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	// Delay earlier chunks so later chunks finish first.
	submit := func(ctx context.Context, chunk []int) ([]int, error) {
		time.Sleep(time.Duration(30-chunk[0]) * time.Millisecond)
		return chunk, nil
	}
	results, err := Dispatch(context.Background(), items, 10, submit)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("result count = %d, want 3", len(results))
	}
	if results[0][0] != 0 || results[1][0] != 10 || results[2][0] != 20 {
		t.Fatalf("results out of input order: %v", results)
	}
}

func TestDispatchFailsWhole(t *testing.T) {
	boom := errors.New("venue rejected")
	submit := func(ctx context.Context, chunk []int) (int, error) {
		if chunk[0] == 10 {
			return 0, boom
		}
		return chunk[0], nil
	}
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	_, err := Dispatch(context.Background(), items, 10, submit)
	if !errors.Is(err, boom) {
		t.Fatalf("Dispatch() error = %v, want %v", err, boom)
	}
}

func TestDispatchRejectsBadSize(t *testing.T) {
	_, err := Dispatch(context.Background(), []int{1}, 0, func(ctx context.Context, c []int) (int, error) {
		return 0, nil
	})
	if !errors.Is(err, ErrBadSize) {
		t.Fatalf("Dispatch() error = %v, want %v", err, ErrBadSize)
	}
}
