// Package analytics wraps the PostHog client so that a missing API key turns
// every call into a no-op.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Tracker forwards product events to PostHog.
type Tracker struct {
	client posthog.Client
	logger *slog.Logger
}

// NewTracker returns a disabled tracker when apiKey is empty.
func NewTracker(apiKey, endpoint string, logger *slog.Logger) *Tracker {
	if apiKey == "" {
		logger.Info("PostHog API key is empty, analytics disabled")
		return &Tracker{}
	}
	cfg := posthog.Config{}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	client, err := posthog.NewWithConfig(apiKey, cfg)
	if err != nil {
		logger.Warn("Failed to initialize PostHog client, analytics disabled", slog.String("error", err.Error()))
		return &Tracker{}
	}
	return &Tracker{client: client, logger: logger}
}

// Enabled reports whether events are forwarded.
func (t *Tracker) Enabled() bool {
	return t != nil && t.client != nil
}

// Enqueue buffers an event for distinctID. Properties must not carry secrets.
func (t *Tracker) Enqueue(distinctID, event string, properties map[string]any) {
	if !t.Enabled() {
		return
	}
	if err := t.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil && t.logger != nil {
		t.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes buffered events.
func (t *Tracker) Close() {
	if !t.Enabled() {
		return
	}
	_ = t.client.Close()
}
