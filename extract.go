package ifs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ExtractOptions configures Archive.Extract.
type ExtractOptions struct {
	// Format selects PNG, DDS or raw dump output.
	Format ExportFormat
	// Codec compresses raw dumps (ExportRaw only).
	Codec Codec
	// DDS configures DDS output; nil means DefaultDDSOptions().
	DDS *DDSOptions
	// Guesses picks the candidate per payload length; nil always uses
	// the middle candidate.
	Guesses *Guesses
	// Workers is the number of entries processed in parallel.
	// 0 means runtime.NumCPU().
	Workers int
	// SkipDuplicates skips entries whose compressed bytes match an
	// earlier entry.
	SkipDuplicates bool
}

// DefaultExtractOptions returns options for PNG output on all CPUs.
func DefaultExtractOptions() *ExtractOptions {
	return &ExtractOptions{Format: ExportPNG}
}

// ExtractResult reports the outcome of one entry.
type ExtractResult struct {
	Entry     Entry
	Path      string // Written file, empty when skipped or failed.
	Candidate int    // Candidate index used for image output.
	Duplicate bool   // Skipped as a duplicate of an earlier entry.
	Err       error
}

// Extract writes every entry into dir. A failing entry is recorded in its
// result and does not stop the others. The returned error is set only
// when dir cannot be created or ctx is done before all entries ran.
func (a *Archive) Extract(ctx context.Context, dir string, opts *ExtractOptions) ([]ExtractResult, error) {
	if opts == nil {
		opts = DefaultExtractOptions()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCreateDir, dir, err)
	}

	results := make([]ExtractResult, len(a.entries))
	for i, e := range a.entries {
		results[i].Entry = e
	}

	skip := make([]bool, len(a.entries))
	if opts.SkipDuplicates {
		a.markDuplicates(results, skip)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.extractOne(dir, i, opts)
			}
		}()
	}

	var ctxErr error
dispatch:
	for i := range a.entries {
		if skip[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, ctxErr
}

// markDuplicates flags entries whose payload hash was seen before.
// Entries that cannot be read are left for extractOne to report.
func (a *Archive) markDuplicates(results []ExtractResult, skip []bool) {
	seen := make(map[uint64]struct{}, len(a.entries))
	for i := range a.entries {
		data, err := a.ReadRaw(i)
		if err != nil {
			continue
		}
		sum := xxhash.Sum64(data)
		if _, ok := seen[sum]; ok {
			skip[i] = true
			results[i].Duplicate = true
			continue
		}
		seen[sum] = struct{}{}
	}
}

func (a *Archive) extractOne(dir string, i int, opts *ExtractOptions) ExtractResult {
	res := ExtractResult{Entry: a.entries[i]}

	data, err := a.Decompress(i)
	if err != nil {
		res.Err = err
		return res
	}

	if opts.Format == ExportRaw {
		res.Path = filepath.Join(dir, entryFileName(i, opts.Codec.Ext()))
		res.Err = WriteFile(res.Path, func(w io.Writer) error {
			return WriteDump(w, data, opts.Codec)
		})
		if res.Err != nil {
			res.Path = ""
		}
		return res
	}

	raw, err := Decode(data)
	if err != nil {
		res.Err = fmt.Errorf("entry #%d: %w", i, err)
		return res
	}
	res.Candidate = opts.Guesses.Pick(raw)

	res.Path = filepath.Join(dir, entryFileName(i, "."+opts.Format.String()))
	res.Err = WriteFile(res.Path, func(w io.Writer) error {
		return WriteImage(w, raw, res.Candidate, opts.Format, opts.DDS)
	})
	if res.Err != nil {
		res.Path = ""
	}

	return res
}

func entryFileName(i int, ext string) string {
	return fmt.Sprintf("%05d%s", i, ext)
}

// WriteFile creates path and fills it with write. The file is removed when
// write or the final close fails, so no partial output is left behind.
func WriteFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}

	return nil
}
