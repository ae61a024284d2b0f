package fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bft-labs/whosreal/internal/domain"
	"github.com/bft-labs/whosreal/internal/ports"
)

// Ledger implements ports.Ledger on an append-only text file.
// Each Update opens, reads, decides, appends and closes the file while
// holding the ledger mutex; nothing stays open between sections.
type Ledger struct {
	path string

	mu  sync.Mutex
	rnd domain.Rand
}

// NewLedger creates a ledger backed by the file at path.
// The file and its directory are created on first use.
func NewLedger(path string) *Ledger {
	return NewLedgerWithRand(path, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewLedgerWithRand creates a ledger that draws with rnd.
func NewLedgerWithRand(path string, rnd domain.Rand) *Ledger {
	return &Ledger{path: path, rnd: rnd}
}

// Path returns the full path to the ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// Update runs fn against a fresh snapshot of the ledger and appends the
// names fn drew in a single write. Nothing is appended when fn fails.
func (l *Ledger) Update(ctx context.Context, fn func(tx ports.LedgerTx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ledger dir: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close ledger: %w", cerr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	tx := &ledgerTx{
		used: domain.NameSet(domain.SplitLines(string(data))),
		rnd:  l.rnd,
	}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 {
		return nil
	}

	var buf bytes.Buffer
	// An interrupted earlier write may have left a partial last line.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}
	for _, name := range tx.staged {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return f.Sync()
}

// Draw selects one unused name from the corpus at corpusPath and records it.
// After a successful draw the ledger holds exactly one new entry, equal to the
// returned name.
func (l *Ledger) Draw(ctx context.Context, corpusPath string) (string, error) {
	var name string
	err := l.Update(ctx, func(tx ports.LedgerTx) error {
		n, err := tx.Draw(corpusPath)
		if err != nil {
			return err
		}
		name = n
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// Names returns the current ledger entries. A missing ledger is empty.
func (l *Ledger) Names() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return domain.SplitLines(string(data)), nil
}

type ledgerTx struct {
	used   map[string]struct{}
	staged []string
	rnd    domain.Rand
}

func (tx *ledgerTx) Draw(corpusPath string) (string, error) {
	pool, err := ReadCorpus(corpusPath)
	if err != nil {
		return "", err
	}
	name, err := domain.PickUnused(pool, tx.used, tx.rnd)
	if err != nil {
		return "", fmt.Errorf("draw from %s: %w", filepath.Base(corpusPath), err)
	}
	tx.used[name] = struct{}{}
	tx.staged = append(tx.staged, name)
	return name, nil
}

// Remaining counts the distinct entries of the corpus at corpusPath that the
// ledger has not recorded yet.
func (l *Ledger) Remaining(corpusPath string) (int, error) {
	pool, err := ReadCorpus(corpusPath)
	if err != nil {
		return 0, err
	}
	names, err := l.Names()
	if err != nil {
		return 0, err
	}
	used := domain.NameSet(names)
	left := make(map[string]struct{})
	for _, n := range pool {
		if _, seen := used[n]; !seen {
			left[n] = struct{}{}
		}
	}
	return len(left), nil
}
