package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransferRecorded is sent once the backend has accepted a transfer.
	KindTransferRecorded = "transfer_recorded"
	// KindBalanceUnreconciled is sent when a balance could not be brought in line
	// with the operation that changed it.
	KindBalanceUnreconciled = "balance_unreconciled"
)

// Message describes a notification payload. Destination is the account the
// message is about.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger. Unreconciled
// balances are logged at warn level so they stand out from routine traffic.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	level := slog.LevelInfo
	if message.Kind == KindBalanceUnreconciled {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
