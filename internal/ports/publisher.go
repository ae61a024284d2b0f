package ports

import "context"

// Publisher hands a message to the social network.
type Publisher interface {
	// Publish posts text. Returns nil on success.
	// Failures wrap domain.ErrPublishFailure.
	Publish(ctx context.Context, text string) error
}

// RetryClassifier is implemented by publish errors that know whether
// sending the same message again may succeed.
type RetryClassifier interface {
	Retryable() bool
}
