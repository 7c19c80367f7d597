package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLoggerNotifierLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	n := NewLoggerNotifier(logger)

	if err := n.Send(context.Background(), Message{Kind: KindBalanceUnreconciled, Destination: "acc1", Body: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "WARN" || entry["kind"] != KindBalanceUnreconciled || entry["destination"] != "acc1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *LoggerNotifier
	if err := n.Send(context.Background(), Message{Kind: KindTransferRecorded}); err != nil {
		t.Fatalf("nil notifier returned %v", err)
	}
}
