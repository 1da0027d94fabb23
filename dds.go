package ifs

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/woozymasta/bcn"
)

// DDSOptions configures DDS export.
type DDSOptions struct {
	// Format is the surface format. Uncompressed BGRA8/RGBA8 keep samples
	// exact; DXT1/DXT5 go through the BCn encoder.
	Format bcn.Format
	// MaxMipMaps limits the mip chain. 0 means full chain, 1 means no mips.
	MaxMipMaps int
	// EncodeOptions are passed to the BCn encoder (e.g. QualityLevel, Workers).
	EncodeOptions *bcn.EncodeOptions
}

// DefaultDDSOptions returns options for a single-level BGRA8 surface.
func DefaultDDSOptions() *DDSOptions {
	return &DDSOptions{
		Format:     bcn.FormatBGRA8,
		MaxMipMaps: 1,
	}
}

// WriteDDS writes img as a DDS file to w. Nil opts uses DefaultDDSOptions().
func WriteDDS(w io.Writer, img image.Image, opts *DDSOptions) error {
	if opts == nil {
		opts = DefaultDDSOptions()
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	levels := mipMapCount(width, height)
	if opts.MaxMipMaps > 0 && opts.MaxMipMaps < levels {
		levels = opts.MaxMipMaps
	}

	mips := []image.Image{img}
	if levels > 1 {
		mips = mips[:0]
		for _, mip := range bcn.GenerateMipmaps(img, false) {
			mips = append(mips, mip)
		}
		if len(mips) > levels {
			mips = mips[:levels]
		}
	}

	surfaces := make([][]byte, len(mips))
	for i, mip := range mips {
		data, _, _, err := bcn.EncodeImageWithOptions(mip, opts.Format, opts.EncodeOptions)
		if err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrEncodeImage, i, err)
		}
		want := encodedSize(opts.Format, mipDimension(width, i), mipDimension(height, i))
		if want <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidFormat, opts.Format)
		}
		if len(data) != want {
			return fmt.Errorf("%w: mipmap %d: expected %d bytes, got %d", ErrEncodeImage, i, want, len(data))
		}
		surfaces[i] = data
	}

	w32, err := u32FromInt(width)
	if err != nil {
		return err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return err
	}
	mip32, err := u32FromInt(len(surfaces))
	if err != nil {
		return err
	}

	header, err := makeDDSHeader(w32, h32, mip32, opts.Format)
	if err != nil {
		return err
	}

	if err := bcn.WriteDDSMagic(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSMagic, err)
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSHeader, err)
	}
	for i, data := range surfaces {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteDDSData, i, err)
		}
	}

	return nil
}

// ddsLayout describes how one bcn.Format is stored in a DDS surface.
type ddsLayout struct {
	blockBytes int    // Bytes per 4x4 block; 0 for uncompressed formats.
	fourCC     string // Compressed formats only.
	rMask      uint32 // Uncompressed formats only.
	gMask      uint32
	bMask      uint32
}

var ddsLayouts = map[bcn.Format]ddsLayout{
	bcn.FormatDXT1:  {blockBytes: 8, fourCC: "DXT1"},
	bcn.FormatDXT3:  {blockBytes: 16, fourCC: "DXT3"},
	bcn.FormatDXT5:  {blockBytes: 16, fourCC: "DXT5"},
	bcn.FormatBC4:   {blockBytes: 8, fourCC: "ATI1"},
	bcn.FormatBC5:   {blockBytes: 16, fourCC: "ATI2"},
	bcn.FormatRGBA8: {rMask: 0x000000ff, gMask: 0x0000ff00, bMask: 0x00ff0000},
	// ARGB samples stored little-endian are BGRA8 byte order.
	bcn.FormatBGRA8: {rMask: 0x00ff0000, gMask: 0x0000ff00, bMask: 0x000000ff},
}

// encodedSize returns the byte length of one width x height surface, or -1
// for formats WriteDDS cannot store.
func encodedSize(format bcn.Format, width, height int) int {
	layout, ok := ddsLayouts[format]
	if !ok {
		return -1
	}
	if layout.blockBytes == 0 {
		return width * height * 4
	}

	return ((width + 3) / 4) * ((height + 3) / 4) * layout.blockBytes
}

func makeDDSHeader(width, height, mipMapCount uint32, format bcn.Format) (*bcn.DDSHeader, error) {
	layout, ok := ddsLayouts[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat),
		Height:      height,
		Width:       width,
		Depth:       1,
		MipMapCount: mipMapCount,
		Caps:        uint32(bcn.DDSCapsTexture),
	}
	if mipMapCount > 1 {
		hdr.Flags |= bcn.DDSFlagMipmapCount
		hdr.Caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	pf := &hdr.PixelFormat
	pf.Size = bcn.DDSPixelFormatSize
	if layout.blockBytes > 0 {
		hdr.Flags |= bcn.DDSFlagLinearSize
		pf.Flags = bcn.DDSPFFourCC
		pf.FourCC = binary.LittleEndian.Uint32([]byte(layout.fourCC))
		return hdr, nil
	}

	hdr.Flags |= bcn.DDSFlagPitch
	hdr.PitchOrLinearSize = width * 4
	pf.Flags = bcn.DDSPFRGB | bcn.DDSPFAlphaPixels
	pf.RGBBitCount = 32
	pf.RBitMask, pf.GBitMask, pf.BBitMask = layout.rMask, layout.gMask, layout.bMask
	pf.ABitMask = 0xff000000

	return hdr, nil
}
