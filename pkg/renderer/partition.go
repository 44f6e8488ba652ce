package renderer

// PixelRange is the half-open range [Start, End) of row-major pixel indices
type PixelRange struct {
	Start int
	End   int
}

// Len returns the number of pixels in the range
func (r PixelRange) Len() int {
	return r.End - r.Start
}

// PartitionPixels splits [0, total) into n contiguous chunks of total/n pixels
// each, in order, plus the trailing remainder that does not divide evenly.
// When total < n no chunks are produced and everything is remainder.
func PartitionPixels(total, n int) ([]PixelRange, PixelRange) {
	if n < 1 {
		n = 1
	}
	if total < 0 {
		total = 0
	}

	size := total / n
	if size == 0 {
		return nil, PixelRange{Start: 0, End: total}
	}

	chunks := make([]PixelRange, n)
	for i := range chunks {
		chunks[i] = PixelRange{Start: i * size, End: (i + 1) * size}
	}
	return chunks, PixelRange{Start: n * size, End: total}
}
