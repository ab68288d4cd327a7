package pool

import (
	"errors"
	"sync"
	"testing"
)

func TestRun_OneResultPerTask(t *testing.T) {
	const n = 20
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	var mu sync.Mutex
	seen := make(map[int]int)

	results := Run(4, items, func(i int) error {
		mu.Lock()
		seen[i]++
		mu.Unlock()
		return nil
	})

	if len(results) != n {
		t.Fatalf("got %d results, want %d", len(results), n)
	}
	for i := 0; i < n; i++ {
		if seen[i] != 1 {
			t.Errorf("item %d executed %d times, want 1", i, seen[i])
		}
	}
	if err := FirstError(results); err != nil {
		t.Errorf("FirstError = %v, want nil", err)
	}
}

func TestRun_FailuresDoNotStopDrain(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	boom := errors.New("boom")

	var mu sync.Mutex
	executed := 0

	results := Run(3, items, func(i int) error {
		mu.Lock()
		executed++
		mu.Unlock()
		if i%2 == 0 {
			return boom
		}
		return nil
	})

	if executed != len(items) {
		t.Errorf("executed %d tasks, want %d (queue must drain past failures)", executed, len(items))
	}
	if len(results) != len(items) {
		t.Errorf("got %d results, want %d", len(results), len(items))
	}
	if got := len(Failures(results)); got != 5 {
		t.Errorf("got %d failures, want 5", got)
	}
	if !errors.Is(FirstError(results), boom) {
		t.Errorf("FirstError = %v, want %v", FirstError(results), boom)
	}
}

func TestRun_EmptyItems(t *testing.T) {
	called := false
	results := Run(4, nil, func(int) error {
		called = true
		return nil
	})
	if results != nil {
		t.Errorf("got %v, want nil for empty batch", results)
	}
	if called {
		t.Error("fn must not run for an empty batch")
	}
}

func TestRun_SingleWorkerKeepsSubmissionOrder(t *testing.T) {
	items := []int{10, 11, 12, 13, 14}
	results := Run(1, items, func(int) error { return nil })

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Item != items[i] {
			t.Errorf("result[%d].Item = %d, want %d (single worker is FIFO)", i, r.Item, items[i])
		}
	}
}

func TestRun_WorkerCountEdgeCases(t *testing.T) {
	t.Run("zero workers clamps to one", func(t *testing.T) {
		results := Run(0, []int{1, 2, 3}, func(int) error { return nil })
		if len(results) != 3 {
			t.Errorf("got %d results, want 3", len(results))
		}
	})

	t.Run("more workers than items", func(t *testing.T) {
		results := Run(8, []int{1, 2}, func(int) error { return nil })
		if len(results) != 2 {
			t.Errorf("got %d results, want 2", len(results))
		}
	})
}
