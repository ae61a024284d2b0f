package domain

import "errors"

// Domain errors represent error conditions in the whosreal domain.
// These errors are returned by every layer and can be checked with errors.Is.
var (
	// ErrCorpusMissing is returned when a canonical corpus, a pool or the raw
	// directory is absent or unreadable.
	ErrCorpusMissing = errors.New("whosreal: corpus missing")

	// ErrExhaustedPool is returned when every entry of a corpus is already
	// recorded in the ledger.
	ErrExhaustedPool = errors.New("whosreal: exhausted pool")

	// ErrPublishFailure is returned when the publish capability rejects a message.
	ErrPublishFailure = errors.New("whosreal: publish failure")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("whosreal: invalid configuration")

	// ErrInvalidTransition is returned when the publish loop is asked to move
	// between two states that are not adjacent.
	ErrInvalidTransition = errors.New("whosreal: invalid state transition")

	// ErrAlreadyRunning is returned when Run() is called on a running loop.
	ErrAlreadyRunning = errors.New("whosreal: already running")
)
