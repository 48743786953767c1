// Package cuboid implements an oriented box (OBB) value type and the
// spatial queries needed to reason about it: point containment, box-box
// intersection and enclosure via the separating axis theorem, conversion
// to an axis-aligned bounding box, minimum-translation-vector penetration
// resolution, and grid snapping.
//
// Cuboids are immutable values. Every operation that "modifies" a cuboid
// returns a new one, so distinct values are safe to use concurrently
// without synchronization.
//
// The package builds on the github.com/deadsy/sdfx vector and matrix
// types: positions and extents are v3.Vec, rigid transforms are sdf.M44,
// and bounding boxes are sdf.Box3.
package cuboid
