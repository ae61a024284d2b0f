package log

import (
	"context"

	"github.com/bft-labs/whosreal/internal/ports"
)

// Publisher implements ports.Publisher by writing the message to the log.
// It backs --dry-run and never fails.
type Publisher struct {
	logger ports.Logger
}

// NewPublisher creates a dry-run publisher.
func NewPublisher(logger ports.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Publish logs text at info level.
func (p *Publisher) Publish(ctx context.Context, text string) error {
	p.logger.Info("dry run, not publishing", ports.String("text", text))
	return nil
}
