package ifs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testArchive holds two identical 4x4 images and one entry whose
// payload does not decode to whole samples.
func testArchive(t *testing.T) []byte {
	t.Helper()

	samples := make([]uint32, 16)
	for i := range samples {
		samples[i] = 0xFF000000 | uint32(i)
	}
	img := encodeLiterals(samplesBytes(samples...))
	bad := encodeLiterals([]byte{1, 2, 3, 4, 5, 6})

	return buildArchive(t, img, bad, img)
}

func TestArchiveEntries(t *testing.T) {
	t.Parallel()

	buf := testArchive(t)
	a, err := NewArchive(bytes.NewReader(buf), int64(len(buf)), nil)
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.Len() != 3 || a.Size() != int64(len(buf)) {
		t.Fatalf("Len() = %d, Size() = %d", a.Len(), a.Size())
	}
	for i, e := range a.Entries() {
		if e.Seq != i {
			t.Fatalf("entry %d has Seq %d", i, e.Seq)
		}
	}
	if _, err := a.Entry(3); !errors.Is(err, ErrEntryRange) {
		t.Fatalf("expected ErrEntryRange, got %v", err)
	}
}

func TestArchiveDecode(t *testing.T) {
	t.Parallel()

	buf := testArchive(t)
	a, err := NewArchive(bytes.NewReader(buf), int64(len(buf)), nil)
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}

	raw, err := a.Decode(0)
	if err != nil {
		t.Fatalf("Decode(0): %v", err)
	}
	if raw.Samples() != 16 || raw.CandidateCount() != 5 {
		t.Fatalf("Samples() = %d, CandidateCount() = %d", raw.Samples(), raw.CandidateCount())
	}
	if v, _ := raw.ARGBAt(2, 3, 3); v != 0xFF00000F {
		t.Fatalf("ARGBAt(2,3,3) = %#x", v)
	}

	again, err := a.Decode(0)
	if err != nil {
		t.Fatalf("Decode(0) again: %v", err)
	}
	if again != raw {
		t.Fatal("expected cached Raw")
	}

	// A bad entry does not affect the others.
	if _, err := a.Decode(1); !errors.Is(err, ErrInvalidPixelData) {
		t.Fatalf("expected ErrInvalidPixelData, got %v", err)
	}
	if _, err := a.Decode(2); err != nil {
		t.Fatalf("Decode(2): %v", err)
	}
}

func TestArchiveNoCache(t *testing.T) {
	t.Parallel()

	buf := testArchive(t)
	a, err := NewArchive(bytes.NewReader(buf), int64(len(buf)), &OpenOptions{})
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}

	first, err := a.Decode(0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := a.Decode(0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if first == second {
		t.Fatal("expected fresh Raw without cache")
	}
}

func TestArchiveFingerprint(t *testing.T) {
	t.Parallel()

	buf := testArchive(t)
	a, err := NewArchive(bytes.NewReader(buf), int64(len(buf)), nil)
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}

	sums := make([]uint64, a.Len())
	for i := range sums {
		if sums[i], err = a.Fingerprint(i); err != nil {
			t.Fatalf("Fingerprint(%d): %v", i, err)
		}
	}
	if sums[0] != sums[2] || sums[0] == sums[1] {
		t.Fatalf("fingerprints = %x", sums)
	}
}

func TestArchiveEntryPastEnd(t *testing.T) {
	t.Parallel()

	buf := testArchive(t)
	buf = buf[:len(buf)-10]
	a, err := NewArchive(bytes.NewReader(buf), int64(len(buf)), nil)
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}

	if _, err := a.ReadRaw(2); !errors.Is(err, ErrReadEntry) {
		t.Fatalf("expected ErrReadEntry, got %v", err)
	}
	if _, err := a.Decode(0); err != nil {
		t.Fatalf("Decode(0): %v", err)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.ifs")
	if err := os.WriteFile(path, testArchive(t), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	a, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d", a.Len())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(filepath.Join(dir, "missing.ifs"), nil); !errors.Is(err, ErrOpenFile) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}

	bad := filepath.Join(dir, "bad.ifs")
	if err := os.WriteFile(bad, make([]byte, 20), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(bad, nil); !errors.Is(err, ErrMalformedArchive) {
		t.Fatalf("expected ErrMalformedArchive, got %v", err)
	}
}
