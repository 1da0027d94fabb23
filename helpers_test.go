package ifs

import (
	"encoding/binary"
	"testing"
)

// testSeparator has a leading byte no small relative offset shares.
const testSeparator = 0x49465321 // "IFS!"

// encodeLiterals builds an LSZZ stream holding data as literal tokens only.
func encodeLiterals(data []byte) []byte {
	out := make([]byte, PreambleSize, PreambleSize+len(data)+len(data)/FlagBits+1)
	for i := 0; i < len(data); i += FlagBits {
		end := min(i+FlagBits, len(data))
		out = append(out, 0xFF)
		out = append(out, data[i:end]...)
	}

	return out
}

// samplesBytes packs samples as little-endian uint32s.
func samplesBytes(samples ...uint32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], s)
	}

	return out
}

// rawArchive lays out packets right after a header block of headerSize
// bytes and sets the index end field to indexEnd.
func rawArchive(tb testing.TB, headerSize, indexEnd uint32, packets []uint32) []byte {
	tb.Helper()

	start := int(headerSize) + packetBaseOffset
	n := max(int(indexEnd), start+4*len(packets))
	buf := make([]byte, n)
	binary.BigEndian.PutUint32(buf[indexEndOffset:], indexEnd)
	binary.BigEndian.PutUint32(buf[headerSizeOffset:], headerSize)
	for i, p := range packets {
		binary.BigEndian.PutUint32(buf[start+4*i:], p)
	}

	return buf
}

// buildArchive packs compressed payloads behind a separator-led index.
// Payloads start 4 bytes past the index end so no relative offset is 0,
// which the scanner would take for zero padding.
func buildArchive(tb testing.TB, payloads ...[]byte) []byte {
	tb.Helper()

	packets := []uint32{testSeparator}
	rel := uint32(4)
	for _, p := range payloads {
		packets = append(packets, rel, uint32(len(p)))
		rel += uint32(len(p))
	}

	indexEnd := uint32(packetBaseOffset + 4*len(packets))
	buf := rawArchive(tb, 0, indexEnd, packets)
	buf = append(buf, 0, 0, 0, 0)
	for _, p := range payloads {
		buf = append(buf, p...)
	}

	return buf
}
