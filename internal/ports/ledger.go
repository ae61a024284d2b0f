package ports

import "context"

// Ledger records every name ever published, across all corpora.
type Ledger interface {
	// Update runs fn inside one ledger section: the ledger is loaded once,
	// fn draws against that snapshot, and the staged names are appended only
	// if fn returns nil. Resources are released before Update returns.
	Update(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx draws names inside a Ledger.Update section.
type LedgerTx interface {
	// Draw returns a name from the corpus at corpusPath that is neither in
	// the ledger nor already drawn in this section.
	// Returns domain.ErrExhaustedPool when none is left and
	// domain.ErrCorpusMissing when the corpus cannot be read.
	Draw(corpusPath string) (string, error)
}
