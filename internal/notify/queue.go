package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/metrics"
)

var (
	// ErrQueueFull is returned by Submit when the buffer is exhausted.
	ErrQueueFull = errors.New("notification queue is full")
	// ErrQueueClosed is returned by Submit after Shutdown.
	ErrQueueClosed = errors.New("notification queue is closed")
)

// Result is reported once per message after its final attempt.
type Result struct {
	Email    Email
	Attempts int
	Err      error
}

// Queue is a bounded in-process job queue drained by a fixed pool of workers.
// Each message is retried with linear backoff up to a maximum number of attempts.
type Queue struct {
	notifier    Notifier
	jobs        chan Email
	workers     int
	maxAttempts int
	backoff     time.Duration
	sendTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	onResult    func(Result)

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// Option configures a Queue.
type Option func(*Queue)

// WithWorkers sets the number of delivery goroutines.
func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

// WithCapacity sets the buffer size.
func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.jobs = make(chan Email, n)
		}
	}
}

// WithMaxAttempts sets how often a message is tried before it is dropped.
func WithMaxAttempts(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between attempts.
func WithBackoff(d time.Duration) Option {
	return func(q *Queue) {
		q.backoff = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		q.logger = l
	}
}

// WithMetrics reports queue depth and outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(q *Queue) {
		q.metrics = m
	}
}

// WithResultHook registers a callback invoked after each message's final attempt.
func WithResultHook(fn func(Result)) Option {
	return func(q *Queue) {
		q.onResult = fn
	}
}

// NewQueue builds a queue in front of notifier. Call Start before submitting.
func NewQueue(notifier Notifier, opts ...Option) *Queue {
	q := &Queue{
		notifier:    notifier,
		jobs:        make(chan Email, 256),
		workers:     2,
		maxAttempts: 3,
		backoff:     time.Second,
		sendTimeout: 30 * time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Start launches the workers. They stop when ctx is cancelled or Shutdown is called.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Submit enqueues msg without blocking.
func (q *Queue) Submit(msg Email) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- msg:
		q.observeDepth()
		return nil
	default:
		q.count(msg.Kind, "dropped")
		return ErrQueueFull
	}
}

// Shutdown stops accepting messages and waits for the workers to drain the
// buffer. If ctx expires first the workers are cancelled and ctx.Err() is returned.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	started := q.started
	q.mu.Unlock()

	if !started {
		return nil
	}
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	logger := q.logger.With(slog.Int("worker", id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-q.jobs:
			if !ok {
				return
			}
			q.observeDepth()
			q.deliver(ctx, logger, msg)
		}
	}
}

func (q *Queue) deliver(ctx context.Context, logger *slog.Logger, msg Email) {
	var err error
	attempt := 0
retry:
	for attempt < q.maxAttempts {
		attempt++
		sendCtx, cancel := context.WithTimeout(ctx, q.sendTimeout)
		err = q.notifier.Send(sendCtx, msg)
		cancel()
		if err == nil {
			break
		}
		logger.Warn("Notification attempt failed",
			slog.String("kind", string(msg.Kind)),
			slog.String("user_id", msg.UserID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt == q.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retry
		case <-time.After(q.backoff * time.Duration(attempt)):
		}
	}

	if err != nil {
		q.count(msg.Kind, "failed")
		logger.Error("Notification dropped after retries",
			slog.String("kind", string(msg.Kind)),
			slog.String("user_id", msg.UserID),
			slog.Int("attempts", attempt),
			slog.String("error", err.Error()),
		)
	} else {
		q.count(msg.Kind, "sent")
		logger.Debug("Notification sent", slog.String("kind", string(msg.Kind)), slog.String("user_id", msg.UserID))
	}
	if q.onResult != nil {
		q.onResult(Result{Email: msg, Attempts: attempt, Err: err})
	}
}

func (q *Queue) count(kind Kind, result string) {
	if q.metrics != nil {
		q.metrics.NotificationsTotal.WithLabelValues(string(kind), result).Inc()
	}
}

func (q *Queue) observeDepth() {
	if q.metrics != nil {
		q.metrics.NotifyQueueDepth.Set(float64(len(q.jobs)))
	}
}
