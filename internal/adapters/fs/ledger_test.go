package fs

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/whosreal/internal/domain"
	"github.com/bft-labs/whosreal/internal/ports"
)

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return domain.SplitLines(string(data))
}

func newTestLedger(t *testing.T, dir string) *Ledger {
	t.Helper()
	return NewLedgerWithRand(filepath.Join(dir, "used.txt"), rand.New(rand.NewSource(1)))
}

func TestLedger_Draw_AppendsExactlyOne(t *testing.T) {
	dir := t.TempDir()
	pool := filepath.Join(dir, "pool.txt")
	writeLines(t, pool, "A", "B", "C", "D")

	l := newTestLedger(t, dir)
	writeLines(t, l.Path(), "A", "C")

	name, err := l.Draw(context.Background(), pool)
	if err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if name != "B" && name != "D" {
		t.Errorf("Draw() = %q, want B or D", name)
	}

	got := readLines(t, l.Path())
	want := []string{"A", "C", name}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_Draw_ExhaustedPool(t *testing.T) {
	dir := t.TempDir()
	pool := filepath.Join(dir, "pool.txt")
	writeLines(t, pool, "A", "B")

	l := newTestLedger(t, dir)
	writeLines(t, l.Path(), "A", "B")

	_, err := l.Draw(context.Background(), pool)
	if !errors.Is(err, domain.ErrExhaustedPool) {
		t.Fatalf("Draw() error = %v, want ErrExhaustedPool", err)
	}
	if got := readLines(t, l.Path()); len(got) != 2 {
		t.Errorf("ledger grew on exhausted draw: %q", got)
	}
}

func TestLedger_Draw_DrainsPool(t *testing.T) {
	dir := t.TempDir()
	pool := filepath.Join(dir, "pool.txt")
	writeLines(t, pool, "A", "B", "C", "B")

	l := newTestLedger(t, dir)
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		name, err := l.Draw(context.Background(), pool)
		if err != nil {
			t.Fatalf("Draw() #%d error = %v", i, err)
		}
		if seen[name] {
			t.Fatalf("Draw() returned %q twice", name)
		}
		seen[name] = true
	}

	if _, err := l.Draw(context.Background(), pool); !errors.Is(err, domain.ErrExhaustedPool) {
		t.Fatalf("fourth Draw() error = %v, want ErrExhaustedPool", err)
	}
}

func TestLedger_Draw_MissingCorpus(t *testing.T) {
	dir := t.TempDir()
	l := newTestLedger(t, dir)

	_, err := l.Draw(context.Background(), filepath.Join(dir, "absent.txt"))
	if !errors.Is(err, domain.ErrCorpusMissing) {
		t.Fatalf("Draw() error = %v, want ErrCorpusMissing", err)
	}
}

func TestLedger_Update_FailedSectionAppendsNothing(t *testing.T) {
	dir := t.TempDir()
	realPath := filepath.Join(dir, "real.txt")
	fakePath := filepath.Join(dir, "fake.txt")
	writeLines(t, realPath, "Alice Smith")
	writeLines(t, fakePath, "Nova Drift")

	l := newTestLedger(t, dir)
	writeLines(t, l.Path(), "Nova Drift")

	err := l.Update(context.Background(), func(tx ports.LedgerTx) error {
		if _, err := tx.Draw(realPath); err != nil {
			return err
		}
		_, err := tx.Draw(fakePath)
		return err
	})
	if !errors.Is(err, domain.ErrExhaustedPool) {
		t.Fatalf("Update() error = %v, want ErrExhaustedPool", err)
	}

	got := readLines(t, l.Path())
	if len(got) != 1 || got[0] != "Nova Drift" {
		t.Errorf("ledger = %q, want only Nova Drift", got)
	}
}

func TestLedger_Update_SharedAcrossCorpora(t *testing.T) {
	dir := t.TempDir()
	realPath := filepath.Join(dir, "real.txt")
	fakePath := filepath.Join(dir, "fake.txt")
	writeLines(t, realPath, "Same Name")
	writeLines(t, fakePath, "Same Name")

	l := newTestLedger(t, dir)
	err := l.Update(context.Background(), func(tx ports.LedgerTx) error {
		if _, err := tx.Draw(realPath); err != nil {
			return err
		}
		_, err := tx.Draw(fakePath)
		return err
	})
	if !errors.Is(err, domain.ErrExhaustedPool) {
		t.Fatalf("Update() error = %v, want ErrExhaustedPool", err)
	}
}

func TestLedger_Update_RepairsPartialLine(t *testing.T) {
	dir := t.TempDir()
	pool := filepath.Join(dir, "pool.txt")
	writeLines(t, pool, "B")

	l := newTestLedger(t, dir)
	if err := os.WriteFile(l.Path(), []byte("A"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := l.Draw(context.Background(), pool); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A\nB\n" {
		t.Errorf("ledger = %q, want %q", data, "A\nB\n")
	}
}

func TestLedger_Update_CreatesMissingLedger(t *testing.T) {
	dir := t.TempDir()
	pool := filepath.Join(dir, "pool.txt")
	writeLines(t, pool, "A")

	l := NewLedgerWithRand(filepath.Join(dir, "data", "used.txt"), rand.New(rand.NewSource(1)))
	name, err := l.Draw(context.Background(), pool)
	if err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if name != "A" {
		t.Errorf("Draw() = %q, want A", name)
	}
}

func TestLedger_Update_CanceledContext(t *testing.T) {
	l := newTestLedger(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := l.Update(ctx, func(tx ports.LedgerTx) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Update() error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("Update() ran fn on a canceled context")
	}
}

func TestLedger_Remaining(t *testing.T) {
	dir := t.TempDir()
	pool := filepath.Join(dir, "pool.txt")
	writeLines(t, pool, "A", "B", "B", "C")

	l := newTestLedger(t, dir)
	writeLines(t, l.Path(), "A", "Z")

	got, err := l.Remaining(pool)
	if err != nil {
		t.Fatalf("Remaining() error = %v", err)
	}
	if got != 2 {
		t.Errorf("Remaining() = %d, want 2", got)
	}
}

func TestCheckCorpus(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "names.txt")
	writeLines(t, file, "A")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"regular file", file, false},
		{"missing file", filepath.Join(dir, "absent.txt"), true},
		{"directory", dir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCorpus(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckCorpus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrCorpusMissing) {
				t.Errorf("CheckCorpus() error = %v, want ErrCorpusMissing", err)
			}
		})
	}
}
