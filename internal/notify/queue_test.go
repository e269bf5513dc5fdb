package notify_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/SscSPs/unit_availability_app/internal/notify"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resultCollector struct {
	mu      sync.Mutex
	results []notify.Result
	done    chan struct{}
	want    int
}

func newCollector(want int) *resultCollector {
	return &resultCollector{done: make(chan struct{}), want: want}
}

func (c *resultCollector) hook(r notify.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
	if len(c.results) == c.want {
		close(c.done)
	}
}

func (c *resultCollector) wait(t *testing.T) []notify.Result {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notification results")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Result(nil), c.results...)
}

func TestQueue_DeliversAndRetries(t *testing.T) {
	var calls atomic.Int32
	flaky := notify.NotifierFunc(func(ctx context.Context, msg notify.Email) error {
		if calls.Add(1) == 1 {
			return errors.New("temporary failure")
		}
		return nil
	})
	m := metrics.New()
	collector := newCollector(1)
	q := notify.NewQueue(flaky,
		notify.WithWorkers(1),
		notify.WithBackoff(time.Millisecond),
		notify.WithMetrics(m),
		notify.WithResultHook(collector.hook),
	)
	q.Start(context.Background())

	require.NoError(t, q.Submit(notify.Email{Kind: notify.KindOTP, To: "a@x.com"}))

	results := collector.wait(t)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 2, results[0].Attempts)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("otp", "sent")))
	require.NoError(t, q.Shutdown(context.Background()))
}

func TestQueue_GivesUpAfterMaxAttempts(t *testing.T) {
	failing := notify.NotifierFunc(func(ctx context.Context, msg notify.Email) error {
		return errors.New("smtp down")
	})
	m := metrics.New()
	collector := newCollector(1)
	q := notify.NewQueue(failing,
		notify.WithMaxAttempts(3),
		notify.WithBackoff(time.Millisecond),
		notify.WithMetrics(m),
		notify.WithResultHook(collector.hook),
	)
	q.Start(context.Background())

	require.NoError(t, q.Submit(notify.Email{Kind: notify.KindApproval, To: "a@x.com"}))

	results := collector.wait(t)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 3, results[0].Attempts)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("approval", "failed")))
	require.NoError(t, q.Shutdown(context.Background()))
}

func TestQueue_SubmitRejections(t *testing.T) {
	block := make(chan struct{})
	slow := notify.NotifierFunc(func(ctx context.Context, msg notify.Email) error {
		<-block
		return nil
	})
	q := notify.NewQueue(slow, notify.WithCapacity(1), notify.WithWorkers(1))

	assert.ErrorIs(t, q.Submit(notify.Email{}), notify.ErrNoRecipient)

	// not started: the buffer of one fills up
	require.NoError(t, q.Submit(notify.Email{To: "a@x.com"}))
	assert.ErrorIs(t, q.Submit(notify.Email{To: "b@x.com"}), notify.ErrQueueFull)

	close(block)
	require.NoError(t, q.Shutdown(context.Background()))
	assert.ErrorIs(t, q.Submit(notify.Email{To: "c@x.com"}), notify.ErrQueueClosed)
}

func TestQueue_ShutdownDrainsBuffer(t *testing.T) {
	var sent atomic.Int32
	ok := notify.NotifierFunc(func(ctx context.Context, msg notify.Email) error {
		sent.Add(1)
		return nil
	})
	q := notify.NewQueue(ok, notify.WithWorkers(2))
	q.Start(context.Background())

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Submit(notify.Email{To: "a@x.com"}))
	}
	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, int32(10), sent.Load())
}

func TestBuildOTPEmail(t *testing.T) {
	msg := notify.BuildOTPEmail(notify.OTPEmailData{Name: "Dana", Code: "123456", ExpiresInMinutes: 10})

	assert.Equal(t, notify.KindOTP, msg.Kind)
	assert.Contains(t, msg.TextBody, "123456")
	assert.Contains(t, msg.TextBody, "10 minutes")
	assert.Contains(t, msg.HTMLBody, "123456")
}
