// Package pool runs a fixed batch of tasks over a bounded set of workers.
//
// Semantics match the batch stages that share it: every task is enqueued
// before the workers start, workers drain the queue until it is empty, and
// exactly one result is recorded per task. A failing task never cancels the
// rest of the batch; callers inspect the results after the drain. There is
// no retry and no per-task timeout; long-running work is bounded only by
// whatever context the task closures capture.
package pool

import "sync"

// Result is the outcome of one task.
type Result[T any] struct {
	Item T
	Err  error
}

// Run executes fn over items with the given number of workers and returns
// one Result per item in completion order. workers is clamped to at least
// 1; workers beyond len(items) exit immediately. Run returns only after
// every item has been processed.
func Run[T any](workers int, items []T, fn func(T) error) []Result[T] {
	if len(items) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	tasks := make(chan T, len(items))
	for _, it := range items {
		tasks <- it
	}
	close(tasks)

	results := make(chan Result[T], len(items))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range tasks {
				results <- Result[T]{Item: it, Err: fn(it)}
			}
		}()
	}
	wg.Wait()
	close(results)

	out := make([]Result[T], 0, len(items))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// FirstError returns the first failure in completion order, or nil when
// every task succeeded.
func FirstError[T any](results []Result[T]) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Failures returns the failed results, preserving completion order.
func Failures[T any](results []Result[T]) []Result[T] {
	var out []Result[T]
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
