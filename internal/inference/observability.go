package inference

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single inference call.
type CallEvent struct {
	Op        string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about inference calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to an io.Writer as slog text records.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"op", event.Op,
		"latency_ms", event.LatencyMs,
		"success", event.Success,
	}
	if !event.Success {
		o.logger.Warn("inference_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("inference_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
