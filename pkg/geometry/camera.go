package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera generates primary rays for a pinhole camera looking down -z in camera space.
// The transform maps world space into camera space (see core.ViewTransform).
type Camera struct {
	width      int
	height     int
	fov        float64
	halfWidth  float64
	halfHeight float64
	pixelSize  float64
	transform  core.Matrix4
	inverse    core.Matrix4
}

// NewCamera creates a camera with an identity view transform
func NewCamera(width, height int, fov float64) *Camera {
	c := &Camera{
		width:     width,
		height:    height,
		fov:       fov,
		transform: core.Identity(),
		inverse:   core.Identity(),
	}

	halfView := math.Tan(fov / 2)
	aspect := float64(width) / float64(height)
	if aspect >= 1 {
		c.halfWidth = halfView
		c.halfHeight = halfView / aspect
	} else {
		c.halfWidth = halfView * aspect
		c.halfHeight = halfView
	}
	c.pixelSize = c.halfWidth * 2 / float64(width)

	return c
}

// CameraConfig places a camera with a look-at view
type CameraConfig struct {
	From   core.Vec3 // Eye position
	To     core.Vec3 // Point to look at
	Up     core.Vec3 // Approximate up direction
	Width  int
	Height int
	FOV    float64 // Field of view in radians
}

// NewCameraFromConfig creates a camera and applies the look-at view transform
func NewCameraFromConfig(config CameraConfig) (*Camera, error) {
	c := NewCamera(config.Width, config.Height, config.FOV)
	if err := c.SetTransform(core.ViewTransform(config.From, config.To, config.Up)); err != nil {
		return c, err
	}
	return c, nil
}

// SetTransform replaces the view transform and its inverse together
func (c *Camera) SetTransform(view core.Matrix4) error {
	rectified, inverse, err := core.InvertRectified(view)
	c.transform = rectified
	c.inverse = inverse
	if err != nil {
		return fmt.Errorf("camera transform: %w", err)
	}
	return nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// FieldOfView returns the horizontal-or-vertical field of view in radians, whichever is longer
func (c *Camera) FieldOfView() float64 { return c.fov }

// PixelSize returns the world-space size of one pixel on the canvas at z=-1
func (c *Camera) PixelSize() float64 { return c.pixelSize }

// Transform returns the view transform
func (c *Camera) Transform() core.Matrix4 { return c.transform }

// RayForPixel returns the ray from the eye through the centre of pixel (x, y)
func (c *Camera) RayForPixel(x, y int) core.Ray {
	xOffset := (float64(x) + 0.5) * c.pixelSize
	yOffset := (float64(y) + 0.5) * c.pixelSize

	// The camera looks toward -z, so +x is to the left
	worldX := c.halfWidth - xOffset
	worldY := c.halfHeight - yOffset

	pixel := c.inverse.MultiplyPoint(core.NewVec3(worldX, worldY, -1))
	origin := c.inverse.MultiplyPoint(core.NewVec3(0, 0, 0))
	return core.NewRay(origin, pixel.Subtract(origin).Normalize())
}

// Project maps a world-space point onto continuous pixel coordinates; pixel (i, j)
// covers [i, i+1) × [j, j+1). ok is false for points at or behind the eye.
func (c *Camera) Project(point core.Vec3) (x, y float64, ok bool) {
	p := c.transform.MultiplyPoint(point)
	if p.Z >= 0 {
		return 0, 0, false
	}

	canvasX := p.X / -p.Z
	canvasY := p.Y / -p.Z
	return (c.halfWidth - canvasX) / c.pixelSize, (c.halfHeight - canvasY) / c.pixelSize, true
}
