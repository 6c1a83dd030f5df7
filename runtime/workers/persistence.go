package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cineverse-chat/contract"
	"cineverse-chat/errors"
)

// Compile-time check: the pool is what dispatchers submit to.
var _ contract.TaskSubmitter = (*PersistencePool)(nil)

// PersistencePool is a fixed set of background workers draining a shared
// task queue. Submission never blocks and never waits on execution.
//
// Ordering: tasks are taken from one FIFO queue but run on whichever worker
// is free, so two writes for the same conversation only keep their submission
// order when they land on the same worker. Nothing here promises
// per-conversation ordering of persisted writes; the history read order comes
// from the message timestamps, not from the pool.
type PersistencePool struct {
	log     *slog.Logger
	workers int
	tasks   chan contract.Task
	wg      sync.WaitGroup
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func NewPersistencePool(log *slog.Logger, workers, queueSize int) *PersistencePool {
	return &PersistencePool{
		log:     log,
		workers: workers,
		tasks:   make(chan contract.Task, queueSize),
	}
}

// Start launches the worker goroutines. The derived context is the force-stop
// lever used by the second shutdown phase.
func (p *PersistencePool) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.drain(workerCtx, id)
		}(i)
	}
}

// Submit enqueues work and returns immediately. After shutdown has begun it
// returns ErrPoolClosed; when the queue is saturated it returns ErrQueueFull
// rather than blocking the dispatch path.
func (p *PersistencePool) Submit(task contract.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return errors.ErrQueueFull
	}
}

// QueueDepth reports how many tasks are waiting for a worker.
func (p *PersistencePool) QueueDepth() int {
	return len(p.tasks)
}

// Shutdown stops intake, gives in-flight and queued tasks up to grace to
// finish, then force-cancels the workers and logs how many tasks were
// abandoned. Safe to call once; later calls are no-ops.
func (p *PersistencePool) Shutdown(grace time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("persistence pool drained cleanly")
	case <-time.After(grace):
		p.cancel()
		<-done
		abandoned := 0
		for range p.tasks {
			abandoned++
		}
		p.log.Warn("persistence pool force-stopped",
			"grace", grace, "abandoned_tasks", abandoned)
	}
}

// drain is one worker's loop. Task failures are logged and swallowed: a lost
// durable write is an accepted, isolated failure mode and must not poison the
// worker or its neighbors.
func (p *PersistencePool) drain(ctx context.Context, id int) {
	for {
		// Force-cancel wins over queued work, otherwise the select below
		// could keep picking tasks after the grace window expired.
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.execute(ctx, id, task)
		}
	}
}

func (p *PersistencePool) execute(ctx context.Context, id int, task contract.Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("persistence task panicked",
				"worker", id, "task", task.Name,
				"panic", r, "error", errors.ErrWorkerPanic)
		}
	}()
	if err := task.Run(ctx); err != nil {
		p.log.Error("persistence task failed",
			"worker", id, "task", task.Name, "error", err)
	}
}
