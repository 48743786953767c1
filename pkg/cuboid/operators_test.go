package cuboid

import (
	"math"
	"strings"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestAddVec(t *testing.T) {
	c := New(at(1, 1, 1), v3.Vec{X: 2, Y: 2, Z: 2})
	sum := c.Add(VecOperand(v3.Vec{X: 1, Y: -2, Z: 3}))

	if !vecApproxEq(sum.Position(), v3.Vec{X: 2, Y: -1, Z: 4}) {
		t.Errorf("position = %v", sum.Position())
	}
	if sum.Size != c.Size {
		t.Error("vector addition must not change size")
	}
}

func TestAddCuboidUsesPositionOnly(t *testing.T) {
	c := New(at(1, 0, 0), v3.Vec{X: 1, Y: 1, Z: 1})
	// The operand's rotation must not leak into the result.
	other := New(rigid(v3.Vec{X: 2, Y: 3, Z: 4}, math.Pi/4, math.Pi/3), v3.Vec{X: 1, Y: 2, Z: 3})

	sum := c.Add(CuboidOperand(other))
	if !vecApproxEq(sum.Position(), v3.Vec{X: 3, Y: 3, Z: 4}) {
		t.Errorf("position = %v, want (3,3,4)", sum.Position())
	}
	if !vecApproxEq(sum.Size, v3.Vec{X: 2, Y: 3, Z: 4}) {
		t.Errorf("size = %v, want (2,3,4)", sum.Size)
	}
	ca, sa := c.Axes(), sum.Axes()
	for i := range ca {
		if !vecApproxEq(ca[i], sa[i]) {
			t.Errorf("operand rotation leaked into axis %d", i)
		}
	}
}

func TestSubMirrorsAdd(t *testing.T) {
	c := New(at(1, 1, 1), v3.Vec{X: 3, Y: 3, Z: 3})
	other := New(at(0.5, 0.5, 0.5), v3.Vec{X: 1, Y: 1, Z: 1})

	diff := c.Sub(CuboidOperand(other))
	if !vecApproxEq(diff.Position(), v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("position = %v", diff.Position())
	}
	if !vecApproxEq(diff.Size, v3.Vec{X: 2, Y: 2, Z: 2}) {
		t.Errorf("size = %v", diff.Size)
	}

	back := c.Add(VecOperand(v3.Vec{X: 1, Y: 2, Z: 3})).Sub(VecOperand(v3.Vec{X: 1, Y: 2, Z: 3}))
	if !vecApproxEq(back.Position(), c.Position()) {
		t.Error("Add then Sub of the same vector should return to the start")
	}
}

func TestMulTransformComposes(t *testing.T) {
	c := New(at(1, 0, 0), v3.Vec{X: 2, Y: 2, Z: 2})
	spun := c.Mul(TransformOperand(sdf.RotateZ(math.Pi / 2)))

	// Post-multiplication rotates the box about its own center.
	if !vecApproxEq(spun.Position(), v3.Vec{X: 1}) {
		t.Errorf("position moved to %v", spun.Position())
	}
	axes := spun.Axes()
	if !vecApproxEq(axes[0], v3.Vec{Y: 1}) {
		t.Errorf("local X is now %v, want (0,1,0)", axes[0])
	}
	if spun.Size != c.Size {
		t.Error("transform multiplication must not change size")
	}
}

func TestMulCuboidMultipliesSizes(t *testing.T) {
	c := New(at(1, 0, 0), v3.Vec{X: 2, Y: 3, Z: 4})
	other := New(at(0, 1, 0), v3.Vec{X: 2, Y: 0.5, Z: 1})

	prod := c.Mul(CuboidOperand(other))
	if !vecApproxEq(prod.Size, v3.Vec{X: 4, Y: 1.5, Z: 4}) {
		t.Errorf("size = %v", prod.Size)
	}
	// Composed translation: the operand's offset is applied in the
	// receiver's (here untranslated) frame.
	if !vecApproxEq(prod.Position(), v3.Vec{X: 1, Y: 1, Z: 0}) {
		t.Errorf("position = %v", prod.Position())
	}
}

func TestDivInvertsMul(t *testing.T) {
	c := New(rigid(v3.Vec{X: 1, Y: 2, Z: 3}, 0.7, 0.2), v3.Vec{X: 2, Y: 2, Z: 2})
	m := rigid(v3.Vec{X: -1, Y: 4, Z: 0}, 0.3, 1.0)

	round := c.Mul(TransformOperand(m)).Div(TransformOperand(m))
	if !vecApproxEq(round.Position(), c.Position()) {
		t.Errorf("round-trip position = %v, want %v", round.Position(), c.Position())
	}
	ra, ca := round.Axes(), c.Axes()
	for i := range ca {
		if !vecApproxEq(ra[i], ca[i]) {
			t.Errorf("round-trip changed axis %d", i)
		}
	}
}

func TestDivCuboidDividesSizes(t *testing.T) {
	c := New(at(1, 0, 0), v3.Vec{X: 4, Y: 6, Z: 8})
	other := New(at(1, 0, 0), v3.Vec{X: 2, Y: 3, Z: 4})

	quot := c.Div(CuboidOperand(other))
	if !vecApproxEq(quot.Size, v3.Vec{X: 2, Y: 2, Z: 2}) {
		t.Errorf("size = %v", quot.Size)
	}
	if !vecApproxEq(quot.Position(), v3.Vec{}) {
		t.Errorf("position = %v, want origin after dividing out the same placement", quot.Position())
	}
}

func TestInvalidOperandPanics(t *testing.T) {
	c := FromSize(v3.Vec{X: 1, Y: 1, Z: 1})

	cases := []struct {
		name string
		call func()
	}{
		{"Add transform", func() { c.Add(TransformOperand(sdf.Identity3d())) }},
		{"Sub transform", func() { c.Sub(TransformOperand(sdf.Identity3d())) }},
		{"Mul vector", func() { c.Mul(VecOperand(v3.Vec{X: 1})) }},
		{"Div vector", func() { c.Div(VecOperand(v3.Vec{X: 1})) }},
	}
	for _, tc := range cases {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Errorf("%s: expected panic", tc.name)
					return
				}
				if msg, ok := r.(string); !ok || !strings.Contains(msg, "invalid") {
					t.Errorf("%s: unexpected panic value %v", tc.name, r)
				}
			}()
			tc.call()
		}()
	}
}
