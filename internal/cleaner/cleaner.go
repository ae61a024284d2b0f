package cleaner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bft-labs/whosreal/internal/domain"
	"github.com/bft-labs/whosreal/internal/ports"
)

// separatorRun is the shortest run of '=' that marks a generator separator line.
const separatorRun = "===="

// maxLineBytes bounds a single line. Longer lines are skipped, not fatal.
const maxLineBytes = 1 << 20

// DefaultExtensions are the raw file extensions cleaned when Options.Extensions is empty.
var DefaultExtensions = []string{".txt"}

// Options configures a cleaning pass.
type Options struct {
	// CanonicalPath is the real-name corpus
	CanonicalPath string

	// RawDir is walked recursively for raw generator output
	RawDir string

	// OutputPath is the fake-name pool, opened for append
	OutputPath string

	// Extensions lists the recognized raw file extensions
	Extensions []string

	// SkipExisting also drops names already present in the output pool
	SkipExisting bool
}

// Result summarizes a cleaning pass.
type Result struct {
	FilesScanned      int
	LinesRead         int
	SeparatorsSkipped int
	Collisions        int
	Appended          int

	// FilesVanished counts raw files removed between discovery and reading
	FilesVanished int

	// LongLinesSkipped counts lines longer than maxLineBytes
	LongLinesSkipped int
}

// Cleaner runs cleaning passes.
type Cleaner struct {
	logger ports.Logger
}

// New creates a Cleaner.
func New(logger ports.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean runs one pass over the whole raw directory.
// A missing canonical corpus or raw directory yields domain.ErrCorpusMissing.
func (c *Cleaner) Clean(ctx context.Context, opts Options) (Result, error) {
	info, err := os.Stat(opts.RawDir)
	if err != nil {
		return Result{}, fmt.Errorf("raw dir: %w: %w", domain.ErrCorpusMissing, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("raw dir: %w: %s is not a directory", domain.ErrCorpusMissing, opts.RawDir)
	}

	var files []string
	err = filepath.WalkDir(opts.RawDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && isRawFile(path, opts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("walk raw dir: %w: %w", domain.ErrCorpusMissing, err)
	}

	return c.CleanFiles(ctx, opts, files)
}

// CleanFiles runs one pass over the given raw files only.
func (c *Cleaner) CleanFiles(ctx context.Context, opts Options, files []string) (Result, error) {
	var res Result

	canonical, err := loadTrimmedSet(opts.CanonicalPath)
	if err != nil {
		return res, fmt.Errorf("canonical corpus: %w: %w", domain.ErrCorpusMissing, err)
	}

	var existing map[string]struct{}
	if opts.SkipExisting {
		existing, err = loadTrimmedSet(opts.OutputPath)
		if err != nil && !os.IsNotExist(err) {
			return res, fmt.Errorf("read pool: %w", err)
		}
	}

	seen := make(map[string]struct{})
	var survivors []string
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		long, err := scanLines(path, func(line string) {
			res.LinesRead++
			if strings.Contains(line, separatorRun) {
				res.SeparatorsSkipped++
				return
			}
			name := strings.TrimSpace(line)
			if name == "" {
				return
			}
			if _, hit := canonical[name]; hit {
				res.Collisions++
				return
			}
			if _, dup := existing[name]; dup {
				return
			}
			if _, dup := seen[name]; dup {
				return
			}
			seen[name] = struct{}{}
			survivors = append(survivors, name)
		})
		if errors.Is(err, fs.ErrNotExist) {
			// The generator may delete temporary files before a watch pass runs.
			res.FilesVanished++
			c.logger.Warn("raw file vanished, skipping", ports.String("file", path))
			continue
		}
		if err != nil {
			return res, fmt.Errorf("read raw file: %w: %w", domain.ErrCorpusMissing, err)
		}
		if long > 0 {
			res.LongLinesSkipped += long
			c.logger.Warn("skipped oversized lines",
				ports.String("file", path), ports.Int("lines", long), ports.Int("max_bytes", maxLineBytes))
		}
		res.FilesScanned++
	}

	if err := appendLines(opts.OutputPath, survivors); err != nil {
		return res, err
	}
	res.Appended = len(survivors)

	c.logger.Info("clean pass complete",
		ports.Int("files", res.FilesScanned),
		ports.Int("lines", res.LinesRead),
		ports.Int("separators", res.SeparatorsSkipped),
		ports.Int("collisions", res.Collisions),
		ports.Int("appended", res.Appended),
		ports.String("output", opts.OutputPath),
	)
	return res, nil
}

// isRawFile reports whether path is generator output. The canonical corpus
// and the pool may live inside the raw tree and are never treated as raw.
func isRawFile(path string, opts Options) bool {
	if samePath(path, opts.CanonicalPath) || samePath(path, opts.OutputPath) {
		return false
	}
	return hasExtension(path, opts.Extensions)
}

func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func loadTrimmedSet(path string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	_, err := scanLines(path, func(line string) {
		set[strings.TrimSpace(line)] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// scanLines calls fn for every line of path without its line ending.
// Lines longer than maxLineBytes are dropped and counted in long.
func scanLines(path string, fn func(line string)) (long int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, maxLineBytes)
	for {
		line, err := r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			long++
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = r.ReadSlice('\n')
			}
			if err == io.EOF {
				return long, nil
			}
			if err != nil {
				return long, err
			}
			continue
		}
		if len(line) > 0 {
			text := strings.TrimSuffix(string(line), "\n")
			fn(strings.TrimSuffix(text, "\r"))
		}
		if err == io.EOF {
			return long, nil
		}
		if err != nil {
			return long, err
		}
	}
}

func appendLines(path string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pool dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, l := range lines {
		w.WriteString(l)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("append pool: %w", err)
	}
	return f.Close()
}
