package notify

import (
	"context"
	"log/slog"

	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// LoggerSink renders operator toasts as structured log lines. The engine
// only fires these; nothing reads them back.
type LoggerSink struct {
	logger *slog.Logger
}

func NewLoggerSink(logger *slog.Logger) *LoggerSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggerSink{logger: logger}
}

func (s LoggerSink) Notify(_ context.Context, level ports.NotificationLevel, message string) {
	if level == ports.NotifyError {
		s.logger.Warn("operator notification",
			"event", "recon_notify",
			"module", "identity-access/reconciliation-service",
			"layer", "adapter",
			"level", string(level),
			"message", message,
		)
		return
	}
	s.logger.Info("operator notification",
		"event", "recon_notify",
		"module", "identity-access/reconciliation-service",
		"layer", "adapter",
		"level", string(level),
		"message", message,
	)
}
