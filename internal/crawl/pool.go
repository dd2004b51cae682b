package crawl

import (
	"context"
	"sync"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// Outcome is the terminal result for one target: a record or an error,
// never both, exactly one per target.
type Outcome struct {
	Target model.CrawlTarget
	Record *model.ProductRecord
	Err    error
}

// job is one target's unit of work.
type job interface {
	execute(ctx context.Context) Outcome
}

// pool runs jobs over a fixed number of workers. A worker owns its
// concurrency slot for the whole life of a target, including the politeness
// delay and every backoff wait; slots are never globally serialized beyond
// the pool size.
type pool struct {
	workers  int
	jobQueue chan job
	outcomes chan Outcome
	wg       sync.WaitGroup
	ctx      context.Context
}

func newPool(ctx context.Context, workers int) *pool {
	if workers <= 0 {
		workers = 1
	}
	return &pool{
		workers:  workers,
		jobQueue: make(chan job, workers*2),
		outcomes: make(chan Outcome, workers*2),
		ctx:      ctx,
	}
}

// run executes every job and returns one outcome per job. Jobs are fed and
// outcomes drained concurrently so neither buffered channel can wedge the
// other. Every job runs even under a canceled context; the job itself turns
// the cancellation into a failure outcome, keeping the one-outcome-per-
// target accounting intact.
func (p *pool) run(jobs []job) []Outcome {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	go func() {
		for _, j := range jobs {
			p.jobQueue <- j
		}
		close(p.jobQueue)
	}()

	go func() {
		p.wg.Wait()
		close(p.outcomes)
	}()

	collected := make([]Outcome, 0, len(jobs))
	for outcome := range p.outcomes {
		collected = append(collected, outcome)
	}
	return collected
}

func (p *pool) worker() {
	defer p.wg.Done()
	for j := range p.jobQueue {
		p.outcomes <- j.execute(p.ctx)
	}
}
