package ifs

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
)

// Raw is a decompressed payload viewed as ARGB samples with every
// width/height pair that fits the sample count.
type Raw struct {
	pixels       []uint32
	length       int // Decompressed byte length.
	headerOffset int // Leading header bytes (0 or HeaderSize).
	widths       []int
	heights      []int
}

// Decode reinterprets a decompressed payload as little-endian ARGB samples.
// Candidate k is (d[k], d[N-1-k]) over the ascending divisors d of the
// post-header sample count.
func Decode(b []byte) (*Raw, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a positive multiple of 4", ErrInvalidPixelData, len(b))
	}

	pixels := make([]uint32, len(b)/4)
	for i := range pixels {
		pixels[i] = binary.LittleEndian.Uint32(b[i*4:])
	}

	offset := 0
	// TODO: confirm the magic byte order against a payload with a known
	// header layout ("TDXT" vs "TXDT").
	if pixels[0] == HeaderMagic {
		offset = HeaderSize
	}

	total := len(pixels) - offset/4
	if total <= 0 {
		return nil, fmt.Errorf("%w: no samples after %d byte header", ErrInvalidPixelData, offset)
	}

	divs := divisors(total)
	widths := make([]int, len(divs))
	heights := make([]int, len(divs))
	for k, d := range divs {
		widths[k] = d
		heights[len(divs)-1-k] = d
	}

	return &Raw{
		pixels:       pixels,
		length:       len(b),
		headerOffset: offset,
		widths:       widths,
		heights:      heights,
	}, nil
}

// divisors returns every divisor of n in ascending order.
func divisors(n int) []int {
	root := int(math.Sqrt(float64(n)))
	for root*root > n {
		root--
	}
	for (root+1)*(root+1) <= n {
		root++
	}

	small := make([]int, 0, 16)
	large := make([]int, 0, 16)
	for i := 1; i <= root; i++ {
		if n%i != 0 {
			continue
		}
		small = append(small, i)
		if j := n / i; j != i {
			large = append(large, j)
		}
	}

	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}

	return small
}

// Len returns the decompressed payload length in bytes.
func (r *Raw) Len() int { return r.length }

// HeaderOffset returns the number of leading header bytes (0 or 16).
func (r *Raw) HeaderOffset() int { return r.headerOffset }

// Samples returns the number of pixel samples after the header.
func (r *Raw) Samples() int { return len(r.pixels) - r.headerOffset/4 }

// CandidateCount returns the number of width/height candidates.
func (r *Raw) CandidateCount() int { return len(r.widths) }

// DefaultCandidate returns the middle candidate, the usual pick when no
// remembered choice exists.
func (r *Raw) DefaultCandidate() int { return len(r.widths) / 2 }

// Size returns the width (X) and height (Y) of candidate index.
func (r *Raw) Size(index int) (image.Point, error) {
	if index < 0 || index >= len(r.widths) {
		return image.Point{}, fmt.Errorf("%w: %d of %d", ErrCandidateRange, index, len(r.widths))
	}

	return image.Pt(r.widths[index], r.heights[index]), nil
}

// ARGBAt returns the sample at (x, y) for candidate index, row-major
// with the origin at the top left.
func (r *Raw) ARGBAt(index, x, y int) (uint32, error) {
	size, err := r.Size(index)
	if err != nil {
		return 0, err
	}
	if x < 0 || y < 0 || x >= size.X || y >= size.Y {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrPixelRange, x, y, size.X, size.Y)
	}

	return r.pixels[r.headerOffset/4+y*size.X+x], nil
}

// Image converts candidate index into a non-premultiplied RGBA image.
func (r *Raw) Image(index int) (*image.NRGBA, error) {
	size, err := r.Size(index)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	samples := r.pixels[r.headerOffset/4:]
	for i, v := range samples {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0] = byte(v >> 16) // R
		p[1] = byte(v >> 8)  // G
		p[2] = byte(v)       // B
		p[3] = byte(v >> 24) // A
	}

	return img, nil
}
