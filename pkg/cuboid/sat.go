package cuboid

import (
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// projectExtent projects every point onto axis and returns the (min, max)
// scalar extent. This is the single SAT primitive every predicate below
// reduces to.
func projectExtent(points []v3.Vec, axis v3.Vec) (float64, float64) {
	min := points[0].Dot(axis)
	max := min
	for _, p := range points[1:] {
		d := p.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// ContainsPoint reports whether p lies inside the cuboid inflated by eps on
// every side. Only the box's own three axes are tested, which is a complete
// separating-axis set for a point against a box.
func (c Cuboid) ContainsPoint(p v3.Vec, eps float64) bool {
	inflated := c.inflated(eps)
	verts := inflated.Vertices()
	for _, axis := range inflated.Axes() {
		min, max := projectExtent(verts, axis)
		d := p.Dot(axis)
		if d < min || d > max {
			return false
		}
	}
	return true
}

// Intersects reports whether the cuboid overlaps o. The receiver is shrunk
// by eps on every side so that boxes merely touching at the tolerance
// boundary do not count as intersecting; o is used at full size.
//
// Only the 12 face normals of the two boxes are used as candidate
// separating axes. The 9 edge cross-product axes a full 3D OBB test
// requires are deliberately omitted, so certain rotated configurations can
// report an intersection where none exists. Use IntersectsStrict when that
// matters.
func (c Cuboid) Intersects(o Cuboid, eps float64) bool {
	deflated := c.inflated(-eps)
	selfVerts := deflated.Vertices()
	otherVerts := o.Vertices()
	for _, axis := range slices.Concat(deflated.Normals(), o.Normals()) {
		min1, max1 := projectExtent(selfVerts, axis)
		min2, max2 := projectExtent(otherVerts, axis)
		if min1 > max2 || max1 < min2 {
			return false
		}
	}
	return true
}

// IntersectsStrict is Intersects with the full 15-axis oriented-box
// separating-axis set: both boxes' face normals plus the cross products of
// their axes. It never reports an intersection for separated boxes, at
// roughly double the cost.
func (c Cuboid) IntersectsStrict(o Cuboid, eps float64) bool {
	deflated := c.inflated(-eps)
	selfVerts := deflated.Vertices()
	otherVerts := o.Vertices()
	for _, axis := range slices.Concat(deflated.Normals(), o.Normals(), crossAxes(deflated, o)) {
		min1, max1 := projectExtent(selfVerts, axis)
		min2, max2 := projectExtent(otherVerts, axis)
		if min1 > max2 || max1 < min2 {
			return false
		}
	}
	return true
}

// crossAxes returns the edge cross-product candidate axes for a pair of
// boxes. Near-parallel axis pairs produce a degenerate cross product and
// are skipped; the face normals already cover those directions.
func crossAxes(a, b Cuboid) []v3.Vec {
	const degenerate = 1e-12
	aAxes := a.Axes()
	bAxes := b.Axes()
	axes := make([]v3.Vec, 0, 9)
	for _, ax := range aAxes {
		for _, bx := range bAxes {
			cross := ax.Cross(bx)
			if cross.Length2() < degenerate {
				continue
			}
			axes = append(axes, cross)
		}
	}
	return axes
}

// EnclosedBy reports whether the cuboid lies entirely inside o, with o
// inflated by eps on every side. The same 12-axis candidate set as
// Intersects is used, with the same incompleteness caveat.
func (c Cuboid) EnclosedBy(o Cuboid, eps float64) bool {
	inflated := o.inflated(eps)
	selfVerts := c.Vertices()
	otherVerts := inflated.Vertices()
	for _, axis := range slices.Concat(c.Normals(), inflated.Normals()) {
		min1, max1 := projectExtent(selfVerts, axis)
		min2, max2 := projectExtent(otherVerts, axis)
		if min1 < min2 || max1 > max2 {
			return false
		}
	}
	return true
}
