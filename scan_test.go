package ifs

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestScanMinimalArchive(t *testing.T) {
	t.Parallel()

	buf := rawArchive(t, 0, 100, []uint32{0x01020304, 4, 10})

	entries, err := Scan(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []Entry{{Offset: 104, Size: 10, Seq: 0}}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
}

func TestScanHeaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "misaligned-header", buf: rawArchive(t, 6, 120, []uint32{0x01020304, 4, 10})},
		{name: "truncated-index-end", buf: make([]byte, 18)},
		{name: "truncated-header-size", buf: make([]byte, 42)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			entries, err := Scan(bytes.NewReader(tc.buf))
			if !errors.Is(err, ErrMalformedArchive) {
				t.Fatalf("expected ErrMalformedArchive, got %v", err)
			}
			if entries != nil {
				t.Fatalf("expected no partial result, got %+v", entries)
			}
		})
	}
}

func TestScanPacketPatterns(t *testing.T) {
	t.Parallel()

	const sep = 0xAA000001

	tests := []struct {
		name    string
		packets []uint32
		want    []Entry
	}{
		{
			name:    "repeated-separator",
			packets: []uint32{sep, 4, 10, 0xAA000002, 20, 5},
			want:    []Entry{{Offset: 4, Size: 10, Seq: 0}, {Offset: 20, Size: 5, Seq: 1}},
		},
		{
			name:    "first-zero-packet-skipped",
			packets: []uint32{sep, 0, 4, 10, 0, 8},
			want:    []Entry{{Offset: 4, Size: 10, Seq: 0}, {Offset: 0, Size: 8, Seq: 1}},
		},
		{
			name:    "zero-size-not-emitted",
			packets: []uint32{sep, 4, 0, 8, 3},
			want:    []Entry{{Offset: 8, Size: 3, Seq: 0}},
		},
		{
			name:    "zero-before-separator",
			packets: []uint32{0, 7, sep, 12, 2},
			want:    []Entry{{Offset: 0, Size: 7, Seq: 0}, {Offset: 12, Size: 2, Seq: 1}},
		},
		{
			name:    "trailing-partial-record",
			packets: []uint32{sep, 4, 10, 9},
			want:    []Entry{{Offset: 4, Size: 10, Seq: 0}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			start := uint32(packetBaseOffset)
			indexEnd := start + uint32(4*len(tc.packets))
			buf := rawArchive(t, 0, indexEnd, tc.packets)

			entries, err := Scan(bytes.NewReader(buf))
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}

			want := make([]Entry, len(tc.want))
			for i, e := range tc.want {
				e.Offset += int64(indexEnd)
				want[i] = e
			}
			if !reflect.DeepEqual(entries, want) {
				t.Fatalf("entries = %+v, want %+v", entries, want)
			}
		})
	}
}

func TestScanHeaderBlockShiftsPackets(t *testing.T) {
	t.Parallel()

	buf := rawArchive(t, 32, 200, []uint32{0x7F7F7F7F, 16, 64})

	entries, err := Scan(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 || entries[0].Offset != 216 || entries[0].Size != 64 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestScanIndexEndBeforeStart(t *testing.T) {
	t.Parallel()

	buf := rawArchive(t, 0, 50, []uint32{0x01020304, 4, 10})

	entries, err := Scan(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestScanShortStream(t *testing.T) {
	t.Parallel()

	// Index end points far past the end of the stream.
	buf := rawArchive(t, 0, 84, []uint32{0x01020304, 4, 10})
	buf[indexEndOffset] = 0x10

	entries, err := Scan(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 || entries[0].Size != 10 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestIndexScannerStates(t *testing.T) {
	t.Parallel()

	var s indexScanner
	steps := []struct {
		packet [packetSize]byte
		want   packetKind
	}{
		{packet: [packetSize]byte{}, want: packetEntry},
		{packet: [packetSize]byte{0x10, 1, 2, 3}, want: packetSeparator},
		{packet: [packetSize]byte{0x10, 9, 9, 9}, want: packetSkip},
		{packet: [packetSize]byte{}, want: packetSkip},
		{packet: [packetSize]byte{}, want: packetEntry},
		{packet: [packetSize]byte{0, 0, 0, 4}, want: packetEntry},
	}

	for i, step := range steps {
		if got := s.classify(step.packet); got != step.want {
			t.Fatalf("step %d: classify(%v) = %v, want %v", i, step.packet, got, step.want)
		}
	}
	if s.state != stateScanning || !s.zeroPadConsumed {
		t.Fatalf("unexpected final state %+v", s)
	}
}

func TestReadRaw(t *testing.T) {
	t.Parallel()

	buf := []byte("0123456789")
	r := bytes.NewReader(buf)

	got, err := ReadRaw(r, Entry{Offset: 6, Size: 4})
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if string(got) != "6789" {
		t.Fatalf("ReadRaw = %q", got)
	}

	if _, err := ReadRaw(r, Entry{Offset: 8, Size: 4}); !errors.Is(err, ErrReadEntry) {
		t.Fatalf("expected ErrReadEntry, got %v", err)
	}
}
