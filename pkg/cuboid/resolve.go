package cuboid

import (
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ResolveIntersection treats the receiver as movable and static as fixed,
// and returns the receiver pushed out of penetration along the axis of
// least relative depth (the minimum-translation-vector resolution).
//
// Depth along each candidate axis is measured from the movable box's
// minimum to the static box's maximum and normalized by the movable box's
// own extent on that axis, so axes of different physical scale compete
// fairly. If any axis separates the two boxes the receiver is returned
// unchanged. Ties go to the earliest axis in enumeration order: the
// receiver's +X,+Y,+Z,-X,-Y,-Z normals before the static box's.
func (c Cuboid) ResolveIntersection(static Cuboid) Cuboid {
	selfVerts := c.Vertices()
	statVerts := static.Vertices()

	var bestAxis v3.Vec
	bestDelta := 0.0
	bestScaled := 0.0
	found := false

	for _, axis := range slices.Concat(c.Normals(), static.Normals()) {
		dynMin, dynMax := projectExtent(selfVerts, axis)
		statMin, statMax := projectExtent(statVerts, axis)
		if dynMin > statMax || dynMax < statMin {
			// Separated: no resolution needed at all.
			return c
		}
		delta := statMax - dynMin
		scaled := delta / (dynMax - dynMin)
		if !found || scaled < bestScaled {
			bestAxis = axis
			bestDelta = delta
			bestScaled = scaled
			found = true
		}
	}

	return c.Translated(bestAxis.MulScalar(bestDelta))
}
