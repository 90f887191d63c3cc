package core

import (
	"context"
	"time"

	"setcore/pkg/domain"
)

// Logger receives structured service events. The signature matches common
// leveled loggers so implementations can be passed in without adapters.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// MetricsRecorder aggregates operation outcomes and durations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer opens spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan finalizes a span with the operation's terminal error, if any.
type TraceSpan interface {
	End(err error)
}

// AuditStatus marks an audit entry as a success or an error outcome.
type AuditStatus string

// Audit entry outcomes.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry records who did what to which entity, and how it ended.
type AuditEntry struct {
	Operation      string
	Status         AuditStatus
	Entity         domain.EntityType
	EntityID       string
	UserID         string
	OrganizationID string
	OccurredAt     time.Time
	Error          string
}

// AuditRecorder receives one entry per service operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopLogger struct{}

func (noopLogger) Debug(interface{}, ...interface{}) {}
func (noopLogger) Info(interface{}, ...interface{})  {}
func (noopLogger) Error(interface{}, ...interface{}) {}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}
