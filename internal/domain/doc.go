// Package domain contains the core rules of whosreal.
//
// It has no dependencies on infrastructure concerns (file system, HTTP,
// logging) and contains only the selection rules, the message format and
// the error taxonomy shared by every layer.
//
// # Entities
//
//   - [Message]: A composed post holding one real and one fake name
//   - [PickUnused]: Selects a name from a corpus snapshot that the ledger has not seen
//
// # Errors
//
// [ErrCorpusMissing] is fatal at startup. [ErrExhaustedPool] and
// [ErrPublishFailure] are recoverable and only skip the current cycle.
package domain
