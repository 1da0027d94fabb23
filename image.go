package ifs

import (
	"fmt"
	"image/png"
	"io"
	"strings"
)

// ExportFormat selects the output of an entry export.
type ExportFormat int

// Export format constants.
const (
	ExportPNG ExportFormat = iota // PNG of the chosen candidate.
	ExportDDS                     // DDS of the chosen candidate.
	ExportRaw                     // Decompressed payload, see Codec.
)

// String returns the export format name.
func (f ExportFormat) String() string {
	switch f {
	case ExportPNG:
		return "png"
	case ExportDDS:
		return "dds"
	case ExportRaw:
		return "raw"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// ParseExportFormat maps a format name to an ExportFormat.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(name) {
	case "", "png":
		return ExportPNG, nil
	case "dds":
		return ExportDDS, nil
	case "raw", "bin":
		return ExportRaw, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownExportFormat, name)
	}
}

// WritePNG encodes candidate index of raw as PNG.
func WritePNG(w io.Writer, raw *Raw, index int) error {
	img, err := raw.Image(index)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodePNG, err)
	}

	return nil
}

// WriteImage writes candidate index of raw as PNG or DDS.
// ddsOpts is only used for ExportDDS; nil means DefaultDDSOptions().
func WriteImage(w io.Writer, raw *Raw, index int, format ExportFormat, ddsOpts *DDSOptions) error {
	switch format {
	case ExportPNG:
		return WritePNG(w, raw, index)
	case ExportDDS:
		img, err := raw.Image(index)
		if err != nil {
			return err
		}
		return WriteDDS(w, img, ddsOpts)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownExportFormat, format)
	}
}
