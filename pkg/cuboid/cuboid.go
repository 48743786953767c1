package cuboid

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultEpsilon is the canonical tolerance for the geometric predicates.
// Predicates take an explicit epsilon so callers can tighten or loosen
// individual queries; this constant is the value to pass when you have no
// reason to care.
const DefaultEpsilon = 1e-6

// Cuboid is an oriented box: a rigid transform (rotation + position) and a
// full extent along each of the box's local axes.
//
// The rotation part of Transform must be orthonormal (no scale or shear);
// all constructors in this package produce such transforms. Size components
// should be non-negative for the box to be geometrically meaningful, but
// this is not enforced: degenerate and inverted extents flow through the
// arithmetic unchanged.
type Cuboid struct {
	Transform sdf.M44
	Size      v3.Vec
}

// New returns a cuboid with the given transform and size.
func New(transform sdf.M44, size v3.Vec) Cuboid {
	return Cuboid{Transform: transform, Size: size}
}

// FromTransform returns a zero-size cuboid with the given transform.
func FromTransform(transform sdf.M44) Cuboid {
	return Cuboid{Transform: transform, Size: v3.Vec{}}
}

// FromSize returns a cuboid of the given size centered at the origin with
// identity rotation.
func FromSize(size v3.Vec) Cuboid {
	return Cuboid{Transform: sdf.Identity3d(), Size: size}
}

// Equal reports whether two cuboids have exactly equal transforms and
// sizes, component by component. This is deliberately exact floating-point
// equality, in contrast to the tolerance-based geometric predicates: two
// cuboids that merely occupy the same space are not Equal.
func (c Cuboid) Equal(o Cuboid) bool {
	return c.Transform == o.Transform && c.Size == o.Size
}

// Position returns the world-space center of the cuboid.
func (c Cuboid) Position() v3.Vec {
	return c.Transform.MulPosition(v3.Vec{})
}

// Axes returns the cuboid's local X, Y, Z basis directions in world space.
// They are unit length as long as the transform's rotation is orthonormal.
func (c Cuboid) Axes() [3]v3.Vec {
	origin := c.Transform.MulPosition(v3.Vec{})
	return [3]v3.Vec{
		c.Transform.MulPosition(v3.Vec{X: 1}).Sub(origin),
		c.Transform.MulPosition(v3.Vec{Y: 1}).Sub(origin),
		c.Transform.MulPosition(v3.Vec{Z: 1}).Sub(origin),
	}
}

// vertexSigns is the fixed corner enumeration order. Tests and callers may
// rely on it; the geometry does not.
var vertexSigns = [8]v3.Vec{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// Vertices returns the 8 corners of the cuboid in world space, in the
// fixed (+,+,+),(+,+,-),(+,-,+),(+,-,-),(-,+,+),(-,+,-),(-,-,+),(-,-,-)
// sign order over the local axes.
func (c Cuboid) Vertices() []v3.Vec {
	half := c.Size.MulScalar(0.5)
	verts := make([]v3.Vec, len(vertexSigns))
	for i, s := range vertexSigns {
		verts[i] = c.Transform.MulPosition(half.Mul(s))
	}
	return verts
}

// Normals returns the 6 outward face-normal directions: the local X, Y, Z
// axes followed by their negations.
func (c Cuboid) Normals() []v3.Vec {
	axes := c.Axes()
	return []v3.Vec{
		axes[0], axes[1], axes[2],
		axes[0].Neg(), axes[1].Neg(), axes[2].Neg(),
	}
}

// Translated returns the cuboid moved by v in world space. Rotation and
// size are unchanged.
func (c Cuboid) Translated(v v3.Vec) Cuboid {
	return Cuboid{
		Transform: sdf.Translate3d(v).Mul(c.Transform),
		Size:      c.Size,
	}
}

// inflated returns the cuboid grown by eps on every side (2*eps per axis).
// A negative eps shrinks it; the size may go negative, which the projection
// arithmetic tolerates.
func (c Cuboid) inflated(eps float64) Cuboid {
	return Cuboid{Transform: c.Transform, Size: c.Size.AddScalar(2 * eps)}
}
