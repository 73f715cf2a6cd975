package service

import (
	"context"

	"github.com/MKhiriev/go-taskpro/internal/logger"
)

// logNotifier writes notifications to the log instead of delivering them.
// It is the development mailer: confirmation links can be copied from the
// server output.
type logNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendNotification(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("notification")

	return nil
}
