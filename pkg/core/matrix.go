package core

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RectifyEpsilon is the nudge applied to zero diagonal entries before inverting
const RectifyEpsilon = 1e-5

// ErrSingularMatrix is returned when a matrix has a zero determinant
var ErrSingularMatrix = errors.New("matrix is singular")

// Matrix4 is a row-major 4x4 affine transform. The algebra is delegated to
// mgl64, which stores matrices column-major.
type Matrix4 [4][4]float64

func (m Matrix4) mgl() mgl64.Mat4 {
	var out mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out.Set(row, col, m[row][col])
		}
	}
	return out
}

func fromMgl(m mgl64.Mat4) Matrix4 {
	var out Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row][col] = m.At(row, col)
		}
	}
	return out
}

// Identity returns the identity matrix
func Identity() Matrix4 {
	return fromMgl(mgl64.Ident4())
}

// Multiply returns m × other
func (m Matrix4) Multiply(other Matrix4) Matrix4 {
	return fromMgl(m.mgl().Mul4(other.mgl()))
}

// Transpose returns the transposed matrix
func (m Matrix4) Transpose() Matrix4 {
	return fromMgl(m.mgl().Transpose())
}

// Determinant returns the determinant of the matrix
func (m Matrix4) Determinant() float64 {
	return m.mgl().Det()
}

// Inverse returns the inverse matrix, or ErrSingularMatrix when the determinant is zero.
// mgl64 returns the zero matrix for determinants within its float tolerance of zero;
// those are reported as singular too.
func (m Matrix4) Inverse() (Matrix4, error) {
	mm := m.mgl()
	if mm.Det() == 0 {
		return Matrix4{}, ErrSingularMatrix
	}
	inv := mm.Inv()
	if inv == (mgl64.Mat4{}) {
		return Matrix4{}, ErrSingularMatrix
	}
	return fromMgl(inv), nil
}

// Rectify returns a copy with every zero diagonal entry replaced by eps
func (m Matrix4) Rectify(eps float64) Matrix4 {
	for i := 0; i < 4; i++ {
		if m[i][i] == 0 {
			m[i][i] = eps
		}
	}
	return m
}

// InvertRectified inverts m, rectifying it first if it is singular.
// The returned matrix is the one actually inverted. When rectification was needed
// the error is ErrSingularMatrix but the returned pair is still usable.
func InvertRectified(m Matrix4) (Matrix4, Matrix4, error) {
	inv, err := m.Inverse()
	if err == nil {
		return m, inv, nil
	}

	rectified := m.Rectify(RectifyEpsilon)
	inv, rerr := rectified.Inverse()
	if rerr != nil {
		// Off-diagonal degeneracy survives rectification; fall back to identity.
		return Identity(), Identity(), err
	}
	return rectified, inv, err
}

// Equals reports whether all entries differ by less than eps
func (m Matrix4) Equals(other Matrix4, eps float64) bool {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if math.Abs(m[row][col]-other[row][col]) >= eps {
				return false
			}
		}
	}
	return true
}

// MultiplyPoint transforms a point (w = 1)
func (m Matrix4) MultiplyPoint(p Vec3) Vec3 {
	v := m.mgl().Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// MultiplyVector transforms a direction (w = 0)
func (m Matrix4) MultiplyVector(d Vec3) Vec3 {
	v := m.mgl().Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Translation returns a translation matrix
func Translation(x, y, z float64) Matrix4 {
	return fromMgl(mgl64.Translate3D(x, y, z))
}

// Scaling returns a scaling matrix
func Scaling(x, y, z float64) Matrix4 {
	return fromMgl(mgl64.Scale3D(x, y, z))
}

// RotationX returns a rotation around the X axis by r radians
func RotationX(r float64) Matrix4 {
	return fromMgl(mgl64.HomogRotate3DX(r))
}

// RotationY returns a rotation around the Y axis by r radians
func RotationY(r float64) Matrix4 {
	return fromMgl(mgl64.HomogRotate3DY(r))
}

// RotationZ returns a rotation around the Z axis by r radians
func RotationZ(r float64) Matrix4 {
	return fromMgl(mgl64.HomogRotate3DZ(r))
}

// Shearing returns a shear matrix; xy moves x in proportion to y, and so on
func Shearing(xy, xz, yx, yz, zx, zy float64) Matrix4 {
	m := Identity()
	m[0][1] = xy
	m[0][2] = xz
	m[1][0] = yx
	m[1][2] = yz
	m[2][0] = zx
	m[2][1] = zy
	return m
}

// ViewTransform orients the world relative to an eye at from looking at to.
// Unlike mgl64.LookAtV the left vector is not renormalized, so an up vector that
// is not perpendicular to the view direction scales the image as well.
func ViewTransform(from, to, up Vec3) Matrix4 {
	forward := to.Subtract(from).Normalize()
	left := forward.Cross(up.Normalize())
	trueUp := left.Cross(forward)

	orientation := mgl64.Mat4FromRows(
		mgl64.Vec4{left.X, left.Y, left.Z, 0},
		mgl64.Vec4{trueUp.X, trueUp.Y, trueUp.Z, 0},
		mgl64.Vec4{-forward.X, -forward.Y, -forward.Z, 0},
		mgl64.Vec4{0, 0, 0, 1},
	)
	return fromMgl(orientation.Mul4(mgl64.Translate3D(-from.X, -from.Y, -from.Z)))
}
