package audit

import (
	"context"
	"log/slog"
)

// Sink accepts events for eventual delivery. The Worker is the production
// implementation; tests substitute a recording sink.
type Sink interface {
	Enqueue(event Event)
}

// Publisher delivers audit events to a sink. Publish must be safe for
// concurrent use; delivery failures are the publisher's to report, never the
// domain's to handle.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes audit events to the structured log. It is the default
// sink and the fallback when Kafka is not configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher wraps a logger as an audit sink.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	attrs := []any{
		"audit_id", event.ID,
		"category", string(event.Category),
		"action", string(event.Action),
		"timestamp", event.Timestamp,
	}
	if event.SubjectHash != "" {
		attrs = append(attrs, "subject_hash", event.SubjectHash)
	}
	if event.RequestID != "" {
		attrs = append(attrs, "request_id", event.RequestID)
	}
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	p.logger.InfoContext(ctx, "audit event", attrs...)
	return nil
}

// NopPublisher drops events. Used in tests that do not assert on auditing.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
