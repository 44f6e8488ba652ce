package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Canvas is the shared output of a render: one color per pixel in row-major
// order, plus an optional depth buffer of the same size. Concurrent writers
// must use disjoint indices.
type Canvas struct {
	width  int
	height int
	pixels []core.Vec3
	depth  []float64 // nil when depth is not recorded
}

// NewCanvas creates a black canvas
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// NewCanvasWithDepth creates a black canvas with a depth buffer initialised to +Inf
func NewCanvasWithDepth(width, height int) *Canvas {
	c := NewCanvas(width, height)
	c.depth = make([]float64, width*height)
	for i := range c.depth {
		c.depth[i] = math.Inf(1)
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Len returns the number of pixels
func (c *Canvas) Len() int { return len(c.pixels) }

// HasDepth reports whether the canvas records depth
func (c *Canvas) HasDepth() bool { return c.depth != nil }

func (c *Canvas) index(x, y int) int {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		panic(fmt.Sprintf("renderer: pixel (%d,%d) outside %dx%d canvas", x, y, c.width, c.height))
	}
	return y*c.width + x
}

// Set writes a pixel color
func (c *Canvas) Set(x, y int, color core.Vec3) {
	c.pixels[c.index(x, y)] = color
}

// At returns a pixel color
func (c *Canvas) At(x, y int) core.Vec3 {
	return c.pixels[c.index(x, y)]
}

// SetIndex writes a pixel by its row-major index
func (c *Canvas) SetIndex(i int, color core.Vec3) {
	c.pixels[i] = color
}

// SetDepth records the hit distance for a pixel index; ignored without a depth buffer
func (c *Canvas) SetDepth(i int, distance float64) {
	if c.depth != nil {
		c.depth[i] = distance
	}
}

// Depth returns the recorded hit distance for a pixel, +Inf for a miss or when depth is not recorded
func (c *Canvas) Depth(x, y int) float64 {
	if c.depth == nil {
		return math.Inf(1)
	}
	return c.depth[c.index(x, y)]
}

// Image converts the canvas to 8-bit RGBA. Colors are clamped to [0, 1] without gamma.
func (c *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			img.SetRGBA(x, y, toRGBA(c.pixels[y*c.width+x]))
		}
	}
	return img
}

func toRGBA(v core.Vec3) color.RGBA {
	v = v.Clamp(0, 1)
	return color.RGBA{
		R: uint8(math.Round(v.X * 255)),
		G: uint8(math.Round(v.Y * 255)),
		B: uint8(math.Round(v.Z * 255)),
		A: 255,
	}
}

// SavePNG writes the canvas to a PNG file
func (c *Canvas) SavePNG(path string) error {
	if err := gg.NewContextForRGBA(c.Image()).SavePNG(path); err != nil {
		return fmt.Errorf("failed to save PNG: %w", err)
	}
	return nil
}

// EncodePNG writes the canvas as PNG to w
func (c *Canvas) EncodePNG(w io.Writer) error {
	return EncodePNG(w, c.Image())
}

// EncodePNG writes an image as PNG to w
func EncodePNG(w io.Writer, img *image.RGBA) error {
	if err := gg.NewContextForRGBA(img).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePPM writes the canvas to a plain (P3) PPM file
func (c *Canvas) SavePPM(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save PPM: %w", err)
	}
	if err := c.EncodePPM(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save PPM: %w", err)
	}
	return nil
}

// EncodePPM writes the canvas as plain PPM to w: a "P3" header, the size and a
// maximum of 255, then one "r g b" line per pixel in row-major order
func (c *Canvas) EncodePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", c.width, c.height)
	for _, p := range c.pixels {
		rgba := toRGBA(p)
		fmt.Fprintf(bw, "%d %d %d\n", rgba.R, rgba.G, rgba.B)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to encode PPM: %w", err)
	}
	return nil
}
