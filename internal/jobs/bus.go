package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/SoftwareVerse/userverse/common/logger"
)

var (
	ErrShuttingDown = errors.New("jobs: bus is shutting down")
	ErrNoHandler    = errors.New("jobs: no handler registered for job type")
)

// Handler performs the side effect of one job. A returned error (or panic) is
// logged and the job is still acknowledged; jobs are never retried by the bus.
type Handler func(ctx context.Context, job Job) error

// Enqueuer is the producer side of the bus. Components that only submit work
// depend on this and treat a nil Enqueuer as "no bus configured".
type Enqueuer interface {
	Enqueue(ctx context.Context, t Type, payload map[string]any, opts ...EnqueueOption) error
}

type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	metadata map[string]any
}

// WithMetadata attaches free-form metadata to the job.
func WithMetadata(md map[string]any) EnqueueOption {
	return func(o *enqueueOptions) {
		o.metadata = md
	}
}

// Bus routes jobs from a Store to the handler registered for their type.
type Bus struct {
	store Store

	handlersMu sync.RWMutex
	handlers   map[Type]Handler

	// gate orders enqueues against Stop: no job can land behind the shutdown entry.
	gate     sync.RWMutex
	stopping bool

	// mu guards the live worker count and the end of the shutdown relay.
	mu        sync.Mutex
	live      int
	exhausted bool
}

func NewBus(store Store) *Bus {
	return &Bus{
		store:    store,
		handlers: make(map[Type]Handler),
	}
}

// Register sets the handler for t, replacing any previous one. Register
// before starting workers; jobs of an unregistered type are dropped.
func (b *Bus) Register(t Type, h Handler) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()
	b.handlers[t] = h
}

// Enqueue submits a job without waiting. It is safe to call from any goroutine
// and fails with ErrShuttingDown once Stop has been called.
func (b *Bus) Enqueue(ctx context.Context, t Type, payload map[string]any, opts ...EnqueueOption) error {
	job := newJobFromContext(ctx, t, payload, opts)

	b.gate.RLock()
	defer b.gate.RUnlock()

	if b.stopping {
		return ErrShuttingDown
	}
	if err := b.store.TryEnqueue(JobEntry(job)); err != nil {
		return fmt.Errorf("enqueueing %s job: %w", t, err)
	}

	slog.DebugContext(ctx, "job enqueued", "job_type", t)
	return nil
}

// EnqueueWait is Enqueue for callers that may block until the store has room.
func (b *Bus) EnqueueWait(ctx context.Context, t Type, payload map[string]any, opts ...EnqueueOption) error {
	job := newJobFromContext(ctx, t, payload, opts)

	b.gate.RLock()
	defer b.gate.RUnlock()

	if b.stopping {
		return ErrShuttingDown
	}
	if err := b.store.Enqueue(ctx, JobEntry(job)); err != nil {
		return fmt.Errorf("enqueueing %s job: %w", t, err)
	}

	slog.DebugContext(ctx, "job enqueued", "job_type", t)
	return nil
}

// RunWorker pulls jobs until it dequeues a shutdown entry, then returns nil.
// If ctx is cancelled it returns ctx.Err().
func (b *Bus) RunWorker(ctx context.Context) error {
	b.mu.Lock()
	if b.exhausted {
		b.mu.Unlock()
		return ErrShuttingDown
	}
	b.live++
	b.mu.Unlock()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "userverse.jobs.worker",
	})
	slog.DebugContext(ctx, "job worker started")

	for {
		if err := ctx.Err(); err != nil {
			b.leave()
			return err
		}

		entry, err := b.store.Dequeue(ctx)
		if err != nil {
			b.leave()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("dequeueing job: %w", err)
		}

		job, ok := entry.Job()
		if !ok {
			b.shutdown(ctx)
			return nil
		}

		b.process(ctx, job)
	}
}

// Start launches n worker loops. The returned channel is closed once all of them have exited.
func (b *Bus) Start(ctx context.Context, n int) <-chan struct{} {
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.RunWorker(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.ErrorContext(ctx, "job worker exited", "error", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// Join waits until every accepted job has been processed and acknowledged.
func (b *Bus) Join(ctx context.Context) error {
	return b.store.Join(ctx)
}

// Stop rejects further enqueues and tells the workers to exit once they reach
// the end of the jobs accepted so far. It does not wait; use Join for that.
// Calls after the first are no-ops.
func (b *Bus) Stop() {
	b.gate.Lock()
	defer b.gate.Unlock()

	if b.stopping {
		return
	}
	b.stopping = true

	// One shutdown entry is enough: each worker that takes it passes a new one
	// on while other workers are still alive.
	if err := b.store.TryEnqueue(ShutdownEntry()); err != nil {
		slog.Error("failed to enqueue shutdown entry", "error", err)
	}

	slog.Info("job bus stopping", "workers", b.Workers())
}

// Workers reports how many worker loops are currently running.
func (b *Bus) Workers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

func (b *Bus) Stopping() bool {
	b.gate.RLock()
	defer b.gate.RUnlock()
	return b.stopping
}

func (b *Bus) handler(t Type) (Handler, bool) {
	b.handlersMu.RLock()
	defer b.handlersMu.RUnlock()
	h, ok := b.handlers[t]
	return h, ok
}

func (b *Bus) process(ctx context.Context, job Job) {
	defer b.ack(ctx)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobType: logger.Ptr(string(job.Type)),
	})

	handler, ok := b.handler(job.Type)
	if !ok {
		slog.ErrorContext(ctx, "dropping job", "error", ErrNoHandler)
		return
	}

	sc := logger.StartSpanFromTraceID(ctx, job.TraceID(), "jobs.process",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	if err := runHandler(ctx, handler, job); err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "job failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return
	}

	slog.DebugContext(ctx, "job processed",
		"duration_ms", time.Since(start).Milliseconds())
}

func runHandler(ctx context.Context, h Handler, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, job)
}

func (b *Bus) ack(ctx context.Context) {
	if err := b.store.Done(); err != nil {
		slog.ErrorContext(ctx, "failed to acknowledge job", "error", err)
	}
}

// shutdown retires the calling worker after it dequeued a shutdown entry. The
// relay decision and worker registration share b.mu, so a worker that starts
// concurrently either receives the relayed entry or sees exhausted.
func (b *Bus) shutdown(ctx context.Context) {
	b.mu.Lock()
	b.live--
	relay := b.live > 0
	if !relay {
		b.exhausted = true
	}
	b.mu.Unlock()

	if relay {
		if err := b.store.TryEnqueue(ShutdownEntry()); err != nil {
			slog.ErrorContext(ctx, "failed to relay shutdown entry", "error", err)
		}
	}
	b.ack(ctx)

	slog.DebugContext(ctx, "job worker stopped")
}

func (b *Bus) leave() {
	b.mu.Lock()
	b.live--
	b.mu.Unlock()
}

func newJobFromContext(ctx context.Context, t Type, payload map[string]any, opts []EnqueueOption) Job {
	var o enqueueOptions
	for _, opt := range opts {
		opt(&o)
	}

	md := maps.Clone(o.metadata)
	if md == nil {
		md = make(map[string]any)
	}
	if _, set := md[metadataTraceID]; !set {
		if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
			md[metadataTraceID] = traceID
		}
	}

	return NewJob(t, payload, md)
}
