package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is a unit of work. worker is the index of the goroutine running the
// task, in [0, Workers()), so a task can use per-worker resources such as a
// batch renderer without locking.
type Task func(worker int)

// WorkerPool is a pool of goroutines for parallel stage draws.
//
// The pool distributes tasks across multiple workers, each with their own
// queue. Workers can steal tasks from other workers when their own queue is
// empty. A worker index is never used by two tasks at the same time.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan Task
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool

	// dispatch is held shared while ExecuteAll queues tasks and exclusively
	// by Close, so done never closes under a dispatch.
	dispatch sync.RWMutex
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan Task, workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan Task, queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(id, myQueue)
			return

		case task := <-myQueue:
			task(id)

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen(id)
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(id, myQueue)
				return
			case task := <-myQueue:
				task(id)
			}
		}
	}
}

func (p *WorkerPool) drainQueue(id int, queue chan Task) {
	for {
		select {
		case task := <-queue:
			task(id)
		default:
			return
		}
	}
}

// steal attempts to take a task from another worker's queue.
func (p *WorkerPool) steal(myID int) Task {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case task := <-p.workQueues[i]:
			return task
		default:
		}
	}
	return nil
}

// ExecuteAll distributes tasks across workers and waits for all to complete.
// Every task runs exactly once, even if Close races with the call: a pool
// closed before dispatch runs the tasks sequentially on the calling
// goroutine with worker index 0, and tasks queued before Close are drained.
func (p *WorkerPool) ExecuteAll(tasks []Task) {
	if len(tasks) == 0 {
		return
	}

	p.dispatch.RLock()
	if !p.running.Load() {
		p.dispatch.RUnlock()
		for _, task := range tasks {
			task(0)
		}
		return
	}

	var completion sync.WaitGroup
	completion.Add(len(tasks))

	for i, task := range tasks {
		p.workQueues[i%p.workers] <- func(worker int) {
			defer completion.Done()
			task(worker)
		}
	}
	p.dispatch.RUnlock()

	completion.Wait()
}

// Close gracefully shuts down the pool.
// It stops accepting new work, waits for all queued work to complete,
// and then stops all workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.dispatch.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.dispatch.Unlock()
		return
	}
	close(p.done)
	p.dispatch.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
