package app

import (
	"fmt"
	"sync"

	"github.com/bft-labs/whosreal/internal/domain"
	"github.com/bft-labs/whosreal/internal/ports"
)

// State represents a state of the publish loop.
type State int

const (
	StateStopped State = iota
	StateIdle
	StateComposing
	StatePublishing
	StateSleeping
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateIdle:
		return "Idle"
	case StateComposing:
		return "Composing"
	case StatePublishing:
		return "Publishing"
	case StateSleeping:
		return "Sleeping"
	default:
		return "Unknown"
	}
}

// Lifecycle manages the state machine for the publish loop:
// Idle -> Composing -> Publishing -> Sleeping -> Idle, with Composing -> Sleeping
// for a skipped cycle. Every running state may move to Stopped.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	logger       ports.Logger
	eventEmitter EventEmitter
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// NewLifecycle creates a new lifecycle manager in StateStopped.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateStopped,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// validTransitions lists the states reachable from each state.
var validTransitions = map[State][]State{
	StateStopped:    {StateIdle},
	StateIdle:       {StateComposing, StateStopped},
	StateComposing:  {StatePublishing, StateSleeping, StateStopped},
	StatePublishing: {StateSleeping, StateStopped},
	StateSleeping:   {StateIdle, StateStopped},
}

// TransitionTo attempts to transition to a new state.
// Returns an error wrapping domain.ErrInvalidTransition if the move is not allowed.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	allowed := false
	for _, s := range validTransitions[oldState] {
		if s == newState {
			allowed = true
			break
		}
	}
	if !allowed {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, oldState, newState)
	}

	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Debug("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// CanStart returns true if the loop is not running.
func (l *Lifecycle) CanStart() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateStopped
}
