package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

// =============================================================================
// ExecuteAll Tests
// =============================================================================

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	tasks := make([]Task, numTasks)
	for i := range tasks {
		tasks[i] = func(int) { counter.Add(1) }
	}
	pool.ExecuteAll(tasks)

	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	pool.ExecuteAll(nil)
	pool.ExecuteAll([]Task{})
}

func TestWorkerPool_WorkerIndexExclusive(t *testing.T) {
	const workers = 4
	pool := NewWorkerPool(workers)
	defer pool.Close()

	var inUse [workers]atomic.Int32
	var overlap atomic.Bool

	tasks := make([]Task, 200)
	for i := range tasks {
		tasks[i] = func(w int) {
			if w < 0 || w >= workers {
				overlap.Store(true)
				return
			}
			if inUse[w].Add(1) != 1 {
				overlap.Store(true)
			}
			runtime.Gosched()
			inUse[w].Add(-1)
		}
	}
	pool.ExecuteAll(tasks)

	if overlap.Load() {
		t.Error("a worker index was used by two tasks at once")
	}
}

func TestWorkerPool_ExecuteAllAfterCloseRunsInline(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var got []int
	pool.ExecuteAll([]Task{
		func(w int) { got = append(got, w) },
		func(w int) { got = append(got, w) },
	})
	if len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Errorf("inline tasks ran with workers %v, want [0 0]", got)
	}
}

func TestWorkerPool_CloseDuringExecuteAllRunsEveryTask(t *testing.T) {
	for round := range 50 {
		pool := NewWorkerPool(4)

		const n = 200
		var ran atomic.Int64
		tasks := make([]Task, n)
		for i := range tasks {
			tasks[i] = func(int) {
				ran.Add(1)
				runtime.Gosched()
			}
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			pool.ExecuteAll(tasks)
		}()
		go func() {
			defer wg.Done()
			runtime.Gosched()
			pool.Close()
		}()
		wg.Wait()

		if got := ran.Load(); got != n {
			t.Fatalf("round %d: ran %d tasks, want %d", round, got, n)
		}
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()
	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
}

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tasks := make([]Task, 50)
			for i := range tasks {
				tasks[i] = func(int) { counter.Add(1) }
			}
			pool.ExecuteAll(tasks)
		}()
	}
	wg.Wait()

	if counter.Load() != 400 {
		t.Errorf("counter = %d, want 400", counter.Load())
	}
}

// =============================================================================
// SplitRange Tests
// =============================================================================

func TestSplitRange(t *testing.T) {
	tests := []struct {
		name          string
		n, parts, min int
		want          []Range
	}{
		{"empty", 0, 4, 1, nil},
		{"even", 8, 4, 1, []Range{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"remainder", 10, 3, 1, []Range{{0, 4}, {4, 7}, {7, 10}}},
		{"min length caps parts", 10, 8, 4, []Range{{0, 5}, {5, 10}}},
		{"smaller than min", 3, 4, 16, []Range{{0, 3}}},
		{"zero parts", 5, 0, 1, []Range{{0, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRange(tt.n, tt.parts, tt.min)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitRange(%d, %d, %d) = %v, want %v", tt.n, tt.parts, tt.min, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitRange(%d, %d, %d)[%d] = %v, want %v", tt.n, tt.parts, tt.min, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitRangeCoversExactly(t *testing.T) {
	for n := 1; n < 50; n++ {
		for parts := 1; parts < 9; parts++ {
			ranges := SplitRange(n, parts, 2)
			next := 0
			for _, r := range ranges {
				if r.Start != next || r.Len() <= 0 {
					t.Fatalf("SplitRange(%d, %d, 2) = %v: gap or empty range", n, parts, ranges)
				}
				next = r.End
			}
			if next != n {
				t.Fatalf("SplitRange(%d, %d, 2) ends at %d, want %d", n, parts, next, n)
			}
		}
	}
}
