package domain

import "strings"

// Rand is the subset of *math/rand.Rand used for selection.
type Rand interface {
	Intn(n int) int
}

// PickUnused returns a uniformly chosen entry of pool that is not in used.
// Duplicate pool entries keep their weight. Empty entries are never chosen.
// It returns ErrExhaustedPool when no entry is left.
func PickUnused(pool []string, used map[string]struct{}, rnd Rand) (string, error) {
	candidates := make([]string, 0, len(pool))
	for _, name := range pool {
		if name == "" {
			continue
		}
		if _, seen := used[name]; seen {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return "", ErrExhaustedPool
	}
	return candidates[rnd.Intn(len(candidates))], nil
}

// SplitLines splits newline-delimited corpus text into entries.
// A trailing carriage return is dropped and empty lines are skipped.
// Entries are otherwise kept verbatim; matching is exact.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// NameSet builds a membership set from entries.
func NameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
