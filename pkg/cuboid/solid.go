package cuboid

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

// Solid converts the cuboid into an sdfx signed-distance solid, the form
// downstream CAD and tessellation code consumes. The box is built at the
// origin and carried to its place by the cuboid's transform.
//
// Degenerate sizes are rejected by sdfx; the error is returned rather than
// swallowed since callers asking for a solid usually want to know.
func (c Cuboid) Solid() (sdf.SDF3, error) {
	box, err := sdf.Box3D(c.Size, 0)
	if err != nil {
		return nil, fmt.Errorf("cuboid: %w", err)
	}
	return sdf.Transform3D(box, c.Transform), nil
}
