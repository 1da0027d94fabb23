package ifs

// Decompress expands one LSZZ payload.
//
// Format: 8-byte preamble, then groups of one control byte and up to 8
// tokens. Control bits are consumed low bit first; bit 1 = literal byte,
// bit 0 = 2-byte back-reference [cmd0, cmd1] with a 12-bit distance
// (cmd0<<4 | cmd1>>4) and a 4-bit length nibble (cmd1&0x0F, plus 3).
//
// Decoding never fails. A back-reference cut by the end of input stops
// decoding and returns the bytes produced so far.
func Decompress(src []byte) []byte {
	if len(src) <= PreambleSize {
		return []byte{}
	}

	out := make([]byte, 0, len(src)*2)
	winStart := 0 // Window is out[winStart:].

	var ctrl byte
	bits := 0
	pos := PreambleSize

	for pos < len(src) {
		if bits == 0 {
			ctrl = src[pos]
			pos++
			bits = FlagBits
			continue
		}

		if ctrl&1 == 1 {
			out = append(out, src[pos])
			pos++
		} else {
			if pos+1 >= len(src) {
				break
			}
			cmd0, cmd1 := src[pos], src[pos+1]
			pos += 2

			length := int(cmd1&0x0F) + MinMatch
			distance := int(cmd0)<<4 | int(cmd1&0xF0)>>4

			out = copyBackRef(out, winStart, distance, length)

			// Trim the window to the newest WindowSize bytes.
			if len(out)-winStart > WindowSize {
				winStart = len(out) - WindowSize
			}
		}

		ctrl >>= 1
		bits--
	}

	return out
}

// copyBackRef appends length bytes read distance bytes back from the end of
// the window out[winStart:]. Bytes are produced one at a time, so the copy
// may read what it has just written.
func copyBackRef(out []byte, winStart, distance, length int) []byte {
	idx := len(out) - winStart - distance

	for i := 0; i < length; i++ {
		winLen := len(out) - winStart
		if idx >= winLen {
			if distance == 0 {
				break
			}
			idx = winLen - distance
		}

		if idx < 0 {
			out = append(out, 0)
		} else {
			out = append(out, out[winStart+idx])
		}
		idx++
	}

	return out
}
