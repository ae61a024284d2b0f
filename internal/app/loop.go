package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/whosreal/internal/domain"
	"github.com/bft-labs/whosreal/internal/ports"
)

// DefaultInterval is the time between two publishes.
const DefaultInterval = 6 * time.Hour

// LoopConfig contains configuration for the publish loop.
type LoopConfig struct {
	// Interval is how long the loop sleeps between cycles
	Interval time.Duration

	// PublishRetries bounds how often one message is re-sent after a
	// retryable publish failure
	PublishRetries int

	RetryInitial time.Duration
	RetryMax     time.Duration

	// Once runs a single cycle and returns
	Once bool
}

// Loop composes and publishes a message every Interval until its context ends.
type Loop struct {
	config    LoopConfig
	composer  MessageComposer
	publisher ports.Publisher
	logger    ports.Logger
	lifecycle *Lifecycle
	back      *backoff
}

// NewLoop creates a publish loop. emitter may be nil.
func NewLoop(
	config LoopConfig,
	composer MessageComposer,
	publisher ports.Publisher,
	logger ports.Logger,
	emitter EventEmitter,
) *Loop {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.RetryInitial <= 0 {
		config.RetryInitial = DefaultBackoffInitial
	}
	if config.RetryMax <= 0 {
		config.RetryMax = DefaultBackoffMax
	}
	return &Loop{
		config:    config,
		composer:  composer,
		publisher: publisher,
		logger:    logger,
		lifecycle: NewLifecycle(logger, emitter),
		back:      newBackoff(config.RetryInitial, config.RetryMax),
	}
}

// State returns the current loop state.
func (l *Loop) State() State {
	return l.lifecycle.State()
}

// Run executes cycles until ctx is canceled, or once in Once mode.
// Per-cycle failures are logged and never end the loop. Returns ctx.Err()
// after cancellation.
func (l *Loop) Run(ctx context.Context) (err error) {
	if !l.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := l.lifecycle.TransitionTo(StateIdle, "run called"); err != nil {
		return err
	}
	defer func() {
		reason := "once mode complete"
		if err != nil {
			reason = err.Error()
		}
		_ = l.lifecycle.TransitionTo(StateStopped, reason)
	}()

	l.logger.Info("publish loop started",
		ports.Duration("interval", l.config.Interval),
		ports.Bool("once", l.config.Once),
	)

	for {
		l.cycle(ctx)

		if err := ctx.Err(); err != nil {
			return err
		}
		if l.config.Once {
			return nil
		}

		if err := l.lifecycle.TransitionTo(StateSleeping, "cycle done"); err != nil {
			return err
		}
		if err := l.sleep(ctx); err != nil {
			l.logger.Info("publish loop stopping", ports.String("reason", err.Error()))
			return err
		}
		if err := l.lifecycle.TransitionTo(StateIdle, "interval elapsed"); err != nil {
			return err
		}
	}
}

// cycle runs Composing and Publishing. Errors are logged here.
func (l *Loop) cycle(ctx context.Context) {
	cycleID := uuid.NewString()[:8]

	_ = l.lifecycle.TransitionTo(StateComposing, "tick")
	msg, err := l.composer.Compose(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrExhaustedPool) {
			l.logger.Warn("no unused names left, skipping cycle",
				ports.String("cycle", cycleID), ports.Err(err))
		} else {
			l.logger.Error("compose failed, skipping cycle",
				ports.String("cycle", cycleID), ports.Err(err))
		}
		return
	}

	_ = l.lifecycle.TransitionTo(StatePublishing, "message composed")
	start := time.Now()
	if err := l.publish(ctx, msg.Text(), cycleID); err != nil {
		l.logger.Error("publish failed, dropping message",
			ports.String("cycle", cycleID),
			ports.String("real", msg.Real),
			ports.String("fake", msg.Fake),
			ports.Err(err),
		)
		return
	}

	l.logger.Info("published",
		ports.String("cycle", cycleID),
		ports.String("real", msg.Real),
		ports.String("fake", msg.Fake),
		ports.Bool("real_first", msg.RealFirst),
		ports.Duration("duration", time.Since(start)),
	)
}

// publish sends text, retrying the same message only for retryable failures
// and at most PublishRetries times. Each message starts from the initial backoff.
func (l *Loop) publish(ctx context.Context, text, cycleID string) error {
	defer l.back.Reset()

	for attempt := 0; ; attempt++ {
		err := l.publisher.Publish(ctx, text)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrPublishFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrPublishFailure, err)
		}

		var rc ports.RetryClassifier
		if attempt >= l.config.PublishRetries || !errors.As(err, &rc) || !rc.Retryable() || ctx.Err() != nil {
			return err
		}

		l.logger.Warn("publish attempt failed, retrying",
			ports.String("cycle", cycleID),
			ports.Int("attempt", attempt+1),
			ports.Duration("backoff", l.back.Current()),
			ports.Err(err),
		)
		if werr := l.back.Wait(ctx); werr != nil {
			return err
		}
	}
}

func (l *Loop) sleep(ctx context.Context) error {
	t := time.NewTimer(l.config.Interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
