package ifs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// initialGuesses are known candidate picks by decompressed payload length.
var initialGuesses = map[int]int{
	257040: 50,
	257400: 31,
	282240: 58,
	293760: 50,
	310800: 38,
	440640: 48,
	674240: 23,
	756576: 20,
	820800: 63,
	836752: 11,
	872640: 42,
	906096: 10,
}

// Guesses remembers the chosen candidate index per decompressed payload
// length. Safe for concurrent use.
type Guesses struct {
	mu sync.RWMutex
	m  map[int]int
}

// NewGuesses returns a memo seeded with the built-in picks.
func NewGuesses() *Guesses {
	return &Guesses{m: maps.Clone(initialGuesses)}
}

// LoadGuesses reads a memo file of "<length>, <index>" lines.
// A missing file yields NewGuesses(). Malformed lines are skipped.
func LoadGuesses(path string) (*Guesses, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewGuesses(), nil
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrGuessesRead, path, err)
	}
	defer func() { _ = f.Close() }()

	g, err := ReadGuesses(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrGuessesRead, path, err)
	}

	return g, nil
}

// ReadGuesses parses memo lines from r. Malformed lines are skipped.
func ReadGuesses(r io.Reader) (*Guesses, error) {
	g := &Guesses{m: make(map[int]int)}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		length, index, ok := parseGuessLine(sc.Text())
		if ok {
			g.m[length] = index
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return g, nil
}

func parseGuessLine(line string) (int, int, bool) {
	line = strings.ReplaceAll(line, " ", "")
	fields := slices.DeleteFunc(strings.Split(line, ","), func(s string) bool { return s == "" })
	if len(fields) != 2 {
		return 0, 0, false
	}

	length, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, false
	}
	index, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, false
	}

	return length, index, true
}

// Save writes the memo to path, one line per length in ascending order.
func (g *Guesses) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrGuessesWrite, path, err)
	}

	if err := g.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %q: %v", ErrGuessesWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrGuessesWrite, path, err)
	}

	return nil
}

// Write writes memo lines to w.
func (g *Guesses) Write(w io.Writer) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	bw := bufio.NewWriter(w)
	for _, length := range slices.Sorted(maps.Keys(g.m)) {
		if _, err := fmt.Fprintf(bw, "%d, %d\n", length, g.m[length]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Lookup returns the remembered index for a payload length.
func (g *Guesses) Lookup(length int) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	index, ok := g.m[length]
	return index, ok
}

// Remember stores index as the pick for a payload length.
func (g *Guesses) Remember(length, index int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.m[length] = index
}

// Choose records index as the candidate for buffers of raw's length.
// An index outside raw's candidate list is refused and the memo is left
// unchanged.
func (g *Guesses) Choose(raw *Raw, index int) error {
	if _, err := raw.Size(index); err != nil {
		return err
	}
	g.Remember(raw.Len(), index)

	return nil
}

// Len returns the number of remembered lengths.
func (g *Guesses) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.m)
}

// Pick returns the candidate index to show for raw: the remembered one if
// still in range, otherwise raw.DefaultCandidate(). A nil memo always
// picks the default.
func (g *Guesses) Pick(raw *Raw) int {
	if g != nil {
		if index, ok := g.Lookup(raw.Len()); ok && index >= 0 && index < raw.CandidateCount() {
			return index
		}
	}

	return raw.DefaultCandidate()
}
