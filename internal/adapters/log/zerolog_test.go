package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/whosreal/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf))

	l.Warn("cycle skipped",
		ports.String("cycle", "abc"),
		ports.Int("attempt", 2),
		ports.Bool("once", true),
		ports.Duration("wait", time.Second),
		ports.Err(errors.New("boom")),
	)

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got["level"] != "warn" {
		t.Errorf("level = %v, want warn", got["level"])
	}
	if got["message"] != "cycle skipped" {
		t.Errorf("message = %v, want cycle skipped", got["message"])
	}
	if got["cycle"] != "abc" {
		t.Errorf("cycle = %v, want abc", got["cycle"])
	}
	if got["attempt"] != float64(2) {
		t.Errorf("attempt = %v, want 2", got["attempt"])
	}
	if got["error"] != "boom" {
		t.Errorf("error = %v, want boom", got["error"])
	}
}

func TestPublisher_LogsText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPublisher(NewZerologAdapterWithLogger(zerolog.New(&buf)))

	if err := p.Publish(context.Background(), "Alice Smith or Nova Drift"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Alice Smith or Nova Drift")) {
		t.Errorf("log output %q does not contain message text", buf.String())
	}
}
