package ifs

// Archive layout offsets. All header integers are big-endian uint32.
const (
	indexEndOffset   = 16 // End of the index packet region (absolute).
	headerSizeOffset = 40 // Size of the header block, must be 4-aligned.
	packetBaseOffset = 72 // Packets start at header block size + this.
	packetSize       = 4
)

// LSZZ stream constants.
const (
	PreambleSize = 8      // Opaque leading bytes of every compressed payload.
	WindowSize   = 0x1000 // Back-reference window (12-bit distance).
	MinMatch     = 3      // Length nibble bias: 3..18 bytes per reference.
	FlagBits     = 8      // Tokens per control byte.
)

// Pixel buffer constants.
const (
	// HeaderMagic is the first sample of payloads that carry a header.
	// Bytes "TDXT" read little-endian.
	HeaderMagic = 0x54584454
	// HeaderSize is the byte length of the optional payload header.
	HeaderSize = 16
)
