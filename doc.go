/*
Package ifs reads image entries from IFS archive containers.

An IFS archive carries a loosely structured index table followed by
entry payloads. Each payload is compressed with LSZZ, an LZSS variant with
a 4KB sliding window, and expands into a flat buffer of little-endian
ARGB samples. Image dimensions are not stored anywhere, so decoding
yields every width/height pair consistent with the sample count and
leaves the final choice to the caller.

The package focuses on practical workflows: scan an archive, decode an
entry, pick a candidate size (optionally remembered per payload length)
and export it as PNG, DDS or a raw dump.

# Examples

Scan and decode the first entry:

	a, err := ifs.Open("tex.ifs", nil)
	if err != nil {
		return err
	}
	defer a.Close()

	raw, err := a.Decode(0)
	if err != nil {
		return err
	}
	size, _ := raw.Size(raw.DefaultCandidate())

Low level, on any io.ReadSeeker / io.ReaderAt pair:

	entries, err := ifs.Scan(f)
	payload, err := ifs.ReadRaw(f, entries[0])
	raw, err := ifs.Decode(ifs.Decompress(payload))
*/
package ifs
