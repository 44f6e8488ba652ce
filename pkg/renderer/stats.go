package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels on the canvas
	RenderedPixels  int           // Pixels actually written
	Workers         int           // Worker goroutines used (1 when unthreaded)
	Chunks          int           // Chunks handed to workers
	RemainderPixels int           // Pixels rendered synchronously after the workers
	FailedChunks    int           // Chunks, remainder included, that stopped early or panicked
	Duration        time.Duration // Wall-clock render time
}

// Complete reports whether every pixel was written
func (rs RenderStats) Complete() bool {
	return rs.FailedChunks == 0 && rs.RenderedPixels == rs.TotalPixels
}

func (rs RenderStats) String() string {
	return fmt.Sprintf("%d/%d pixels, %d workers, %d chunks (+%d remainder), %d failed, %v",
		rs.RenderedPixels, rs.TotalPixels, rs.Workers, rs.Chunks, rs.RemainderPixels, rs.FailedChunks, rs.Duration)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image, with
// 8-bit channels mapped onto [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
			total += c.Luminance()
		}
	}
	return total / float64(count)
}
