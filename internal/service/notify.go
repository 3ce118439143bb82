package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/events"
)

// Recorder receives domain counters. *metrics.Metrics satisfies it.
type Recorder interface {
	WatchlistChange(action string)
	SentimentUpsert()
}

type nopRecorder struct{}

func (nopRecorder) WatchlistChange(string) {}

func (nopRecorder) SentimentUpsert() {}

// notifier fans a committed change out to metrics and the event broker.
// Broker failures are logged and never returned.
type notifier struct {
	publisher events.Publisher
	recorder  Recorder
}

func newNotifier(publisher events.Publisher, recorder Recorder) notifier {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return notifier{publisher: publisher, recorder: recorder}
}

func (n notifier) publish(ctx context.Context, eventType, key string, data any) {
	event := events.Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "type", eventType, "key", key, "error", err)
	}
}
