// Package engine is the concurrent batch façade sitting above single
// imagefit.Builder pipelines: a bounded worker pool, synchronous Process,
// fire-and-forget Submit, fan-out Batch, and ProcessVariants for producing
// several named outputs from one decoded source without re-decoding it.
//
// Grounded on the teacher's core.Processor worker-pool/retry machinery,
// generalized from a fixed Step slice to a Recipe closure.
package engine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	imagefit "github.com/Skryldev/imgfit"
	"github.com/Skryldev/imgfit/adapters/encoder"
	"github.com/Skryldev/imgfit/config"
	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/source"
)

// Recipe records the resize/filter calls to apply to a freshly started
// Builder. It must not call a terminal operation; Process/Batch/Submit drive
// that themselves once the recipe has recorded its steps.
type Recipe func(b *imagefit.Builder) *imagefit.Builder

// Output selects which terminal operation a Job drives: ToRaster when
// Format is empty, ToEncoded otherwise.
type Output struct {
	Format  encoder.Format
	Quality float64
}

// Job is a single unit of asynchronous work submitted to the worker pool.
type Job struct {
	ID     string
	Ctx    context.Context //nolint:containedctx // intentional for async jobs
	Token  source.Token
	Recipe Recipe
	Output Output

	// ResultCh receives the outcome; nil for fire-and-forget.
	ResultCh chan<- JobResult
}

// JobResult wraps the outcome of an async Job.
type JobResult struct {
	JobID  string
	Result *imagefit.Result
	Err    error
}

// VariantDefinition names one output derived from the same decoded source.
type VariantDefinition struct {
	Name   string
	Recipe Recipe
	Output Output
}

// VariantResult is one named entry in ProcessVariants' return value.
type VariantResult struct {
	Name   string
	Result *imagefit.Result
	Err    error
}

// Processor is the central batch orchestrator. Safe for concurrent use.
type Processor struct {
	cfg    config.Config
	engine *imagefit.Engine

	jobQueue chan Job
	wg       sync.WaitGroup
	once     sync.Once
	shutdown chan struct{}

	processedCount int64
	errorCount     int64
}

// New creates a Processor around engine. Call Start before Submit; call Stop
// when done.
func New(cfg config.Config, eng *imagefit.Engine) *Processor {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Processor{
		cfg:      cfg,
		engine:   eng,
		jobQueue: make(chan Job, queueSize),
		shutdown: make(chan struct{}),
	}
}

// Start launches the worker pool. Idempotent.
func (p *Processor) Start() {
	p.once.Do(func() {
		workerCount := p.cfg.WorkerCount
		if workerCount <= 0 {
			workerCount = runtime.NumCPU()
		}
		for i := 0; i < workerCount; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Stop drains the queue and shuts down all workers.
func (p *Processor) Stop() {
	close(p.shutdown)
	p.wg.Wait()
}

// Process runs recipe against tok synchronously, applying retry around the
// terminal call when it fails with a retryable error.
func (p *Processor) Process(ctx context.Context, tok source.Token, recipe Recipe, out Output) (*imagefit.Result, error) {
	return p.runWithRetry(ctx, tok, recipe, out)
}

// Submit enqueues an async job. Returns ErrWorkerPoolFull if the queue is
// full.
func (p *Processor) Submit(job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	select {
	case p.jobQueue <- job:
		return nil
	default:
		return imgerr.New(imgerr.CodeProcessingFailed, "engine.Submit", imgerr.ErrWorkerPoolFull)
	}
}

// Batch runs recipe against every token concurrently (fan-out/fan-in).
func (p *Processor) Batch(ctx context.Context, tokens []source.Token, recipe Recipe, out Output) ([]*imagefit.Result, []error) {
	results := make([]*imagefit.Result, len(tokens))
	errs := make([]error, len(tokens))
	var wg sync.WaitGroup

	for i, tok := range tokens {
		wg.Add(1)
		go func(idx int, t source.Token) {
			defer wg.Done()
			r, e := p.Process(ctx, t, recipe, out)
			results[idx] = r
			errs[idx] = e
		}(i, tok)
	}
	wg.Wait()
	return results, errs
}

// ProcessVariants materializes tok exactly once, then runs every variant's
// recipe concurrently. Each variant starts from its own copy of the decoded
// pixels, because filters run in place and a variant without a resize would
// otherwise mutate the image the other variants are reading.
func (p *Processor) ProcessVariants(ctx context.Context, tok source.Token, variants []VariantDefinition) ([]VariantResult, error) {
	r, _, err := source.Materialize(ctx, tok, source.Options{Registry: source.DefaultRegistry(), MaxBytes: p.cfg.MaxImageBytes})
	if err != nil {
		return nil, err
	}

	results := make([]VariantResult, len(variants))
	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(idx int, vd VariantDefinition) {
			defer wg.Done()
			img := *r.Pix
			img.Pix = append([]uint8(nil), r.Pix.Pix...)
			b := p.engine.FromImage(&img)
			if vd.Recipe != nil {
				b = vd.Recipe(b)
			}
			res, err := terminal(ctx, b, vd.Output)
			results[idx] = VariantResult{Name: vd.Name, Result: res, Err: err}
		}(i, v)
	}
	wg.Wait()
	return results, nil
}

// ProcessedCount returns the total number of successfully processed jobs.
func (p *Processor) ProcessedCount() int64 { return atomic.LoadInt64(&p.processedCount) }

// ErrorCount returns the total number of job failures.
func (p *Processor) ErrorCount() int64 { return atomic.LoadInt64(&p.errorCount) }

// ── internals ───────────────────────────────────────────────────────────────

// terminal drives b's single terminal call: ToRaster when out.Format is
// unset (the caller only wants dimensions/metadata), ToEncoded otherwise.
// The raster from the ToRaster branch is discarded here; callers that need
// pixel data should call imagefit directly instead of going through engine.
func terminal(ctx context.Context, b *imagefit.Builder, out Output) (*imagefit.Result, error) {
	if out.Format == "" {
		_, meta, err := b.ToRaster(ctx)
		if err != nil {
			return nil, err
		}
		return &imagefit.Result{Meta: meta}, nil
	}
	res, err := b.ToEncoded(ctx, out.Format, out.Quality)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (p *Processor) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.shutdown:
			for {
				select {
				case job := <-p.jobQueue:
					p.processJob(job)
				default:
					return
				}
			}
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.processJob(job)
		}
	}
}

func (p *Processor) processJob(job Job) {
	ctx := job.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := p.cfg.JobTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := p.runWithRetry(ctx, job.Token, job.Recipe, job.Output)
	if job.ResultCh != nil {
		job.ResultCh <- JobResult{JobID: job.ID, Result: result, Err: err}
	}
}

func (p *Processor) runWithRetry(ctx context.Context, tok source.Token, recipe Recipe, out Output) (*imagefit.Result, error) {
	maxRetries := p.cfg.MaxRetries
	delay := p.cfg.RetryDelay

	var (
		result *imagefit.Result
		err    error
	)
	for i := 0; i <= maxRetries; i++ {
		b := p.engine.From(tok)
		if recipe != nil {
			b = recipe(b)
		}
		result, err = terminal(ctx, b, out)
		if err == nil {
			atomic.AddInt64(&p.processedCount, 1)
			return result, nil
		}
		if !imgerr.IsRetryable(err) {
			atomic.AddInt64(&p.errorCount, 1)
			return nil, err
		}
		if i < maxRetries {
			select {
			case <-ctx.Done():
				atomic.AddInt64(&p.errorCount, 1)
				return nil, imgerr.Wrap(imgerr.CodeTimeoutError, "engine.Process", ctx.Err())
			case <-time.After(delay):
			}
		}
	}
	atomic.AddInt64(&p.errorCount, 1)
	return result, err
}
