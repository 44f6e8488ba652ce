package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrUnknownPattern is returned when a pattern tag is not recognised
var ErrUnknownPattern = errors.New("unknown pattern")

// PatternKind selects how a pattern alternates between its two colors
type PatternKind int

const (
	PatternSolid PatternKind = iota
	PatternStriped
	PatternCheckered
	PatternRinged
	PatternGradient
)

var patternNames = map[PatternKind]string{
	PatternSolid:     "solid",
	PatternStriped:   "striped",
	PatternCheckered: "checkered",
	PatternRinged:    "ringed",
	PatternGradient:  "gradient",
}

func (k PatternKind) String() string {
	if name, ok := patternNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PatternKind(%d)", int(k))
}

// ParsePatternKind maps a scene-file tag onto a PatternKind
func ParsePatternKind(name string) (PatternKind, error) {
	for kind, n := range patternNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// Pattern is a procedural color source evaluated in its own pattern space
type Pattern struct {
	Kind PatternKind
	A    core.Vec3
	B    core.Vec3

	transform core.Matrix4
	inverse   core.Matrix4
}

// NewSolidPattern creates a single-color pattern
func NewSolidPattern(color core.Vec3) Pattern {
	return NewPattern(PatternSolid, color, color)
}

// NewPattern creates a two-color pattern with an identity transform
func NewPattern(kind PatternKind, a, b core.Vec3) Pattern {
	return Pattern{
		Kind:      kind,
		A:         a,
		B:         b,
		transform: core.Identity(),
		inverse:   core.Identity(),
	}
}

// SetTransform replaces the pattern transform and its inverse together.
// A singular matrix is rectified and reported, leaving the pattern usable.
func (p *Pattern) SetTransform(m core.Matrix4) error {
	rectified, inverse, err := core.InvertRectified(m)
	p.transform = rectified
	p.inverse = inverse
	if err != nil {
		return fmt.Errorf("pattern transform: %w", err)
	}
	return nil
}

// Transform returns the pattern-to-object transform
func (p Pattern) Transform() core.Matrix4 {
	return p.transform
}

// ColorAt returns the pattern color at a point given in object space
func (p Pattern) ColorAt(objectPoint core.Vec3) core.Vec3 {
	if p.Kind == PatternSolid {
		return p.A
	}

	point := p.inverse.MultiplyPoint(objectPoint)

	switch p.Kind {
	case PatternStriped:
		return p.pick(math.Floor(point.X))
	case PatternCheckered:
		return p.pick(math.Floor(point.X) + math.Floor(point.Y) + math.Floor(point.Z))
	case PatternRinged:
		return p.pick(math.Floor(math.Sqrt(point.X*point.X + point.Y*point.Y)))
	case PatternGradient:
		// x in [-1, 1] maps onto [A, B]
		fraction := (point.X + 1) / 2
		return p.A.Add(p.B.Subtract(p.A).Multiply(fraction))
	default:
		return p.A
	}
}

func (p Pattern) pick(band float64) core.Vec3 {
	if math.Mod(band, 2) == 0 {
		return p.A
	}
	return p.B
}
