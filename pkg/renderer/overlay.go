package renderer

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// overlayPalette colors bounds by tree depth, cycling when the tree is deeper
var overlayPalette = [][3]float64{
	{1, 0.2, 0.2},
	{1, 0.8, 0.1},
	{0.2, 1, 0.3},
	{0.2, 0.7, 1},
	{0.8, 0.3, 1},
}

// DrawBoundsOverlay strokes the screen-space rectangle of every bounded tree node
// onto img, in place. Nodes with infinite bounds or entirely behind the camera are
// skipped. Returns the number of rectangles drawn.
func DrawBoundsOverlay(img *image.RGBA, s *scene.Scene) int {
	if s.Camera == nil {
		return 0
	}

	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(1)

	drawn := 0
	var walk func(id scene.NodeID, depth int)
	walk = func(id scene.NodeID, depth int) {
		node := s.Tree.Node(id)
		if rect, ok := projectBounds(s.Camera, node.Bounds); ok {
			c := overlayPalette[depth%len(overlayPalette)]
			dc.SetRGBA(c[0], c[1], c[2], 0.8)
			dc.DrawRectangle(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy())
			dc.Stroke()
			drawn++
		}
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	walk(s.Tree.Root(), 0)

	return drawn
}

// screenRect is a projected rectangle in pixel coordinates
type screenRect struct {
	Min, Max struct{ X, Y float64 }
}

func (r screenRect) Dx() float64 { return r.Max.X - r.Min.X }
func (r screenRect) Dy() float64 { return r.Max.Y - r.Min.Y }

// projectBounds projects the corners of box that lie in front of the camera
func projectBounds(camera *geometry.Camera, box core.AABB) (screenRect, bool) {
	var rect screenRect
	if !box.IsValid() || box.IsInfinite() {
		return rect, false
	}

	rect.Min.X, rect.Min.Y = math.Inf(1), math.Inf(1)
	rect.Max.X, rect.Max.Y = math.Inf(-1), math.Inf(-1)

	visible := false
	for _, corner := range box.Corners() {
		x, y, ok := camera.Project(corner)
		if !ok {
			continue
		}
		visible = true
		rect.Min.X, rect.Min.Y = math.Min(rect.Min.X, x), math.Min(rect.Min.Y, y)
		rect.Max.X, rect.Max.Y = math.Max(rect.Max.X, x), math.Max(rect.Max.Y, y)
	}
	return rect, visible
}
