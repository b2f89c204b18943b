package sweep

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightfield/wellspring/internal/types"
)

// EmailSender delivers one outbound email. Implementations should be
// safe for concurrent use; the email sweep is the only caller today
// but runs alongside the HTTP server.
type EmailSender interface {
	Send(ctx context.Context, job *types.EmailJob) error
}

// LogSender is the default sender: it logs the delivery instead of
// talking to a mail provider. Used in development and tests.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a sender that logs instead of delivering
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the email and reports success
func (l *LogSender) Send(ctx context.Context, job *types.EmailJob) error {
	l.logger.Info("email delivered (log sender)",
		zap.Int64("email_id", job.ID),
		zap.String("recipient", job.Recipient),
		zap.String("subject", job.Subject))
	return nil
}
