package fs

import (
	"fmt"
	"os"

	"github.com/bft-labs/whosreal/internal/domain"
)

// ReadCorpus loads every entry of a newline-delimited corpus file.
// A missing or unreadable file yields domain.ErrCorpusMissing.
func ReadCorpus(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w: %w", domain.ErrCorpusMissing, err)
	}
	return domain.SplitLines(string(data)), nil
}

// CheckCorpus verifies that path is a readable regular file.
func CheckCorpus(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("check corpus: %w: %w", domain.ErrCorpusMissing, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("check corpus: %w: %w", domain.ErrCorpusMissing, err)
	}
	if info.IsDir() {
		return fmt.Errorf("check corpus: %w: %s is a directory", domain.ErrCorpusMissing, path)
	}
	return nil
}
