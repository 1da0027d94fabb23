package ifs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// OpenOptions configures an Archive.
type OpenOptions struct {
	// CacheSize is the number of decoded entries kept in memory.
	// 0 disables the cache.
	CacheSize int
}

// DefaultOpenOptions returns options with a small decoded entry cache.
func DefaultOpenOptions() *OpenOptions {
	return &OpenOptions{CacheSize: 16}
}

// Archive is a scanned IFS archive. Entry reads go through io.ReaderAt,
// so methods are safe for concurrent use when the source is (*os.File is).
type Archive struct {
	r       io.ReaderAt
	closer  io.Closer
	size    int64
	entries []Entry
	cache   *lru.Cache[int, *Raw]
}

// Open opens and scans the archive at path. Nil opts uses DefaultOpenOptions().
func Open(path string, opts *OpenOptions) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q: %v", ErrStatFile, path, err)
	}

	a, err := NewArchive(f, info.Size(), opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	a.closer = f

	return a, nil
}

// NewArchive scans size bytes of r. Nil opts uses DefaultOpenOptions().
func NewArchive(r io.ReaderAt, size int64, opts *OpenOptions) (*Archive, error) {
	if opts == nil {
		opts = DefaultOpenOptions()
	}

	entries, err := Scan(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}

	a := &Archive{r: r, size: size, entries: entries}
	if opts.CacheSize > 0 {
		cache, err := lru.New[int, *Raw](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCreateCache, err)
		}
		a.cache = cache
	}

	return a, nil
}

// Close releases the underlying file when the archive was opened by path.
func (a *Archive) Close() error {
	if a.cache != nil {
		a.cache.Purge()
	}
	if a.closer == nil {
		return nil
	}

	return a.closer.Close()
}

// Size returns the archive length in bytes.
func (a *Archive) Size() int64 { return a.size }

// Len returns the number of entries.
func (a *Archive) Len() int { return len(a.entries) }

// Entries returns a copy of the entry list.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Entry returns entry i.
func (a *Archive) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(a.entries) {
		return Entry{}, fmt.Errorf("%w: %d of %d", ErrEntryRange, i, len(a.entries))
	}

	return a.entries[i], nil
}

// ReadRaw returns the compressed payload of entry i.
func (a *Archive) ReadRaw(i int) ([]byte, error) {
	e, err := a.Entry(i)
	if err != nil {
		return nil, err
	}
	if e.End() > a.size {
		return nil, fmt.Errorf("%w: #%d ends at %d past archive size %d", ErrReadEntry, e.Seq, e.End(), a.size)
	}

	return ReadRaw(a.r, e)
}

// Decompress returns the expanded payload of entry i.
func (a *Archive) Decompress(i int) ([]byte, error) {
	data, err := a.ReadRaw(i)
	if err != nil {
		return nil, err
	}

	return Decompress(data), nil
}

// Decode returns entry i decoded as a sample buffer. Results are cached
// when the archive has a cache; a cached Raw is shared between callers.
func (a *Archive) Decode(i int) (*Raw, error) {
	if a.cache != nil {
		if raw, ok := a.cache.Get(i); ok {
			return raw, nil
		}
	}

	data, err := a.Decompress(i)
	if err != nil {
		return nil, err
	}
	raw, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("entry #%d: %w", i, err)
	}

	if a.cache != nil {
		a.cache.Add(i, raw)
	}

	return raw, nil
}

// Fingerprint returns the xxhash64 of the compressed payload of entry i.
// Equal fingerprints mark duplicate entries.
func (a *Archive) Fingerprint(i int) (uint64, error) {
	data, err := a.ReadRaw(i)
	if err != nil {
		return 0, err
	}

	return xxhash.Sum64(data), nil
}
