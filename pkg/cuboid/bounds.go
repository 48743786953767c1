package cuboid

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// BoundingBox returns the tightest axis-aligned box containing the cuboid,
// computed by folding min/max over the 8 world-space vertices.
func (c Cuboid) BoundingBox() sdf.Box3 {
	verts := c.Vertices()
	bb := sdf.Box3{Min: verts[0], Max: verts[0]}
	for _, v := range verts[1:] {
		bb.Min = bb.Min.Min(v)
		bb.Max = bb.Max.Max(v)
	}
	return bb
}

// SnapToIncrement returns the cuboid repositioned so that the edges of its
// axis-aligned bounding box align to a world grid of the given increment.
// Rotation and size are unchanged.
//
// Per world axis: when the bounding extent rounds to an even multiple of
// the increment the bounding center snaps to the nearest multiple; when it
// rounds to an odd multiple the center snaps to the nearest multiple plus
// half an increment. Snapping the center alone would leave odd-extent boxes
// with their edges off-grid.
//
// A non-positive increment is a contract violation and panics.
func (c Cuboid) SnapToIncrement(increment float64) Cuboid {
	if increment <= 0 {
		panic(fmt.Sprintf("cuboid: SnapToIncrement requires a positive increment, got %v", increment))
	}
	bb := c.BoundingBox()
	size := bb.Size()
	center := bb.Min.Add(bb.Max).MulScalar(0.5)
	snapped := v3.Vec{
		X: snapComponent(center.X, size.X, increment),
		Y: snapComponent(center.Y, size.Y, increment),
		Z: snapComponent(center.Z, size.Z, increment),
	}
	// Rebuild the translation from the snapped center rather than adding a
	// delta to the old one, so the result lands on the grid exactly instead
	// of carrying the original coordinate's rounding error.
	recentered := sdf.Translate3d(c.Position().Neg()).Mul(c.Transform)
	return Cuboid{Transform: sdf.Translate3d(snapped).Mul(recentered), Size: c.Size}
}

// snapComponent snaps a single bounding-center coordinate given the
// bounding extent along the same axis.
func snapComponent(center, extent, increment float64) float64 {
	multiples := math.Round(extent / increment)
	if math.Mod(multiples, 2) == 0 {
		return math.Round(center/increment) * increment
	}
	return math.Round(center/increment-0.5)*increment + increment/2
}
