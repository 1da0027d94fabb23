package ifs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Entry locates one compressed payload inside an archive.
type Entry struct {
	Offset int64  // Absolute payload position in the archive.
	Size   uint32 // Compressed payload length.
	Seq    int    // Discovery order, starting at 0.
}

// End returns the absolute offset one past the last payload byte.
func (e Entry) End() int64 {
	return e.Offset + int64(e.Size)
}

type scanState int

const (
	stateSeekingSeparator scanState = iota
	stateScanning
)

type packetKind int

const (
	packetSeparator packetKind = iota // Adopted as the separator pattern.
	packetSkip                        // Repeated separator or zero padding.
	packetEntry                       // Relative offset of an entry.
)

// indexScanner classifies index packets. Packets are not self-delimiting:
// a record starts with a separator whose leading byte repeats across
// records, and the table may carry zero padding.
type indexScanner struct {
	state           scanState
	separator       [packetSize]byte
	zeroPadConsumed bool
}

// classify consumes one packet and reports how it must be treated.
func (s *indexScanner) classify(packet [packetSize]byte) packetKind {
	zero := packet == [packetSize]byte{}

	switch s.state {
	case stateSeekingSeparator:
		if zero {
			return packetEntry
		}
		s.separator = packet
		s.state = stateScanning
		return packetSeparator

	default:
		if packet[0] == s.separator[0] {
			return packetSkip
		}
		// Only the first zero packet of a scan is padding.
		if zero && !s.zeroPadConsumed {
			s.zeroPadConsumed = true
			return packetSkip
		}
		return packetEntry
	}
}

// Scan reads the index table of an IFS archive and returns the entries
// in discovery order. Ambiguous packets degrade to skipped or spurious
// entries; only a broken header fails the scan.
func Scan(r io.ReadSeeker) ([]Entry, error) {
	indexEnd, err := readU32At(r, indexEndOffset)
	if err != nil {
		return nil, fmt.Errorf("%w: index end: %v", ErrMalformedArchive, err)
	}
	headerSize, err := readU32At(r, headerSizeOffset)
	if err != nil {
		return nil, fmt.Errorf("%w: header size: %v", ErrMalformedArchive, err)
	}
	if headerSize%4 != 0 {
		return nil, fmt.Errorf("%w: header size %d is not 4-aligned", ErrMalformedArchive, headerSize)
	}

	start := int64(headerSize) + packetBaseOffset
	end := int64(indexEnd)
	if end <= start {
		return []Entry{}, nil
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek index table: %v", ErrMalformedArchive, err)
	}
	// A stream shorter than indexEnd scans only what exists.
	table, err := io.ReadAll(io.LimitReader(r, end-start))
	if err != nil {
		return nil, fmt.Errorf("%w: read index table: %v", ErrMalformedArchive, err)
	}

	return scanTable(table, end), nil
}

// scanTable walks packets of the index region. Offsets inside entries are
// relative to indexEnd.
func scanTable(table []byte, indexEnd int64) []Entry {
	var (
		s       indexScanner
		packet  [packetSize]byte
		entries = make([]Entry, 0, len(table)/(2*packetSize))
	)

	pos := 0
	for pos+packetSize <= len(table) {
		copy(packet[:], table[pos:pos+packetSize])
		pos += packetSize

		if s.classify(packet) != packetEntry {
			continue
		}

		// Size field cut by the table end: trailing partial record.
		if pos+packetSize > len(table) {
			break
		}
		rel := binary.BigEndian.Uint32(packet[:])
		size := binary.BigEndian.Uint32(table[pos : pos+packetSize])
		pos += packetSize

		if size > 0 {
			entries = append(entries, Entry{
				Offset: indexEnd + int64(rel),
				Size:   size,
				Seq:    len(entries),
			})
		}
	}

	return entries
}

// ReadRaw copies the compressed payload of e out of r.
func ReadRaw(r io.ReaderAt, e Entry) ([]byte, error) {
	data := make([]byte, e.Size)
	if n, err := r.ReadAt(data, e.Offset); err != nil {
		// ReadAt may return io.EOF together with a full buffer.
		if !errors.Is(err, io.EOF) || n != len(data) {
			return nil, fmt.Errorf("%w: #%d at %d (%d bytes): %v", ErrReadEntry, e.Seq, e.Offset, e.Size, err)
		}
	}

	return data, nil
}

// readU32At reads a big-endian uint32 at an absolute offset.
func readU32At(r io.ReadSeeker, offset int64) (uint32, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}

	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(buf[:]), nil
}
