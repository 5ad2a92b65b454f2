package reminder

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// deliveryPool fans a sweep's tasks out to a fixed number of worker
// goroutines and waits for all of them to finish.
type deliveryPool struct {
	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines
	wg sync.WaitGroup

	logger *slog.Logger
}

func newDeliveryPool(workerCount int, logger *slog.Logger) *deliveryPool {
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", workerCount,
			"default_count", 1)
		workerCount = 1
	}
	return &deliveryPool{
		workerCount: workerCount,
		logger:      logger,
	}
}

// run calls handle once per task and returns when every call has returned.
// handle must be safe for concurrent use.
func (p *deliveryPool) run(ctx context.Context, tasks []*domain.Task, handle func(context.Context, *domain.Task)) {
	jobs := make(chan *domain.Task, len(tasks))
	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)

	workers := p.workerCount
	if workers > len(tasks) {
		workers = len(tasks)
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i, jobs, handle)
	}
	p.wg.Wait()
}

func (p *deliveryPool) worker(ctx context.Context, id int, jobs <-chan *domain.Task, handle func(context.Context, *domain.Task)) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)
	for task := range jobs {
		handle(ctx, task)
	}
	p.logger.Debug("worker drained queue", "worker_id", id)
}
