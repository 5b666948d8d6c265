package app

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "hotel_inventory/internal/app"

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// utcNow matches the microsecond precision of the stored timestamps.
func utcNow() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Option tunes a service; tests use it to pin the clock and id source.
type Option func(*deps)

type deps struct {
	tracer trace.Tracer
	now    func() time.Time
	newID  func() uuid.UUID
}

func WithTracer(t trace.Tracer) Option { return func(d *deps) { d.tracer = t } }

func WithClock(now func() time.Time) Option { return func(d *deps) { d.now = now } }

func WithIDs(newID func() uuid.UUID) Option { return func(d *deps) { d.newID = newID } }

func buildDeps(opts []Option) deps {
	d := deps{tracer: otel.Tracer(tracerName), now: utcNow, newID: uuid.New}
	for _, o := range opts {
		o(&d)
	}
	return d
}
