package ifs

// maxMipLevels caps the exported mip chain.
const maxMipLevels = 11

// mipMapCount returns the number of levels in a full mip chain for a
// width x height surface, capped at maxMipLevels.
func mipMapCount(width, height int) int {
	count := 1
	for width > 1 || height > 1 {
		count++
		if width > 1 {
			width /= 2
		}
		if height > 1 {
			height /= 2
		}
	}

	return min(count, maxMipLevels)
}

// mipDimension returns one side of a mip level, never below 1.
func mipDimension(base, level int) int {
	return max(base>>level, 1)
}
