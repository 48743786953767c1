package cuboid

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// operandKind tags the dynamic kind of an Operand.
type operandKind int

const (
	operandCuboid operandKind = iota
	operandVec
	operandTransform
)

func (k operandKind) String() string {
	switch k {
	case operandCuboid:
		return "cuboid"
	case operandVec:
		return "vector"
	case operandTransform:
		return "transform"
	}
	return fmt.Sprintf("operandKind(%d)", int(k))
}

// Operand is the tagged right-hand side of the cuboid arithmetic methods.
// Build one with CuboidOperand, VecOperand or TransformOperand. Each
// arithmetic method accepts a subset of operand kinds; passing an
// unsupported kind is a programmer error and panics.
type Operand struct {
	kind operandKind
	c    Cuboid
	v    v3.Vec
	m    sdf.M44
}

// CuboidOperand wraps a cuboid for use as an arithmetic operand.
func CuboidOperand(c Cuboid) Operand {
	return Operand{kind: operandCuboid, c: c}
}

// VecOperand wraps a vector for use as an arithmetic operand.
func VecOperand(v v3.Vec) Operand {
	return Operand{kind: operandVec, v: v}
}

// TransformOperand wraps a rigid transform for use as an arithmetic operand.
func TransformOperand(m sdf.M44) Operand {
	return Operand{kind: operandTransform, m: m}
}

func invalidOperand(op string, k operandKind) string {
	return fmt.Sprintf("cuboid: invalid %s operand for %s", k, op)
}

// Add returns the cuboid translated by the operand. A cuboid operand
// contributes its position (its rotation is ignored) and its size is added
// component-wise; a vector operand translates with size unchanged.
func (c Cuboid) Add(op Operand) Cuboid {
	switch op.kind {
	case operandCuboid:
		moved := c.Translated(op.c.Position())
		moved.Size = c.Size.Add(op.c.Size)
		return moved
	case operandVec:
		return c.Translated(op.v)
	}
	panic(invalidOperand("Add", op.kind))
}

// Sub is the mirror of Add: positions and sizes are subtracted.
func (c Cuboid) Sub(op Operand) Cuboid {
	switch op.kind {
	case operandCuboid:
		moved := c.Translated(op.c.Position().Neg())
		moved.Size = c.Size.Sub(op.c.Size)
		return moved
	case operandVec:
		return c.Translated(op.v.Neg())
	}
	panic(invalidOperand("Sub", op.kind))
}

// Mul composes the cuboid's transform with the operand's. A cuboid operand
// also multiplies sizes component-wise; a transform operand leaves the size
// unchanged.
func (c Cuboid) Mul(op Operand) Cuboid {
	switch op.kind {
	case operandCuboid:
		return Cuboid{
			Transform: c.Transform.Mul(op.c.Transform),
			Size:      c.Size.Mul(op.c.Size),
		}
	case operandTransform:
		return Cuboid{Transform: c.Transform.Mul(op.m), Size: c.Size}
	}
	panic(invalidOperand("Mul", op.kind))
}

// Div composes the cuboid's transform with the inverse of the operand's.
// A cuboid operand also divides sizes component-wise; a transform operand
// leaves the size unchanged.
func (c Cuboid) Div(op Operand) Cuboid {
	switch op.kind {
	case operandCuboid:
		return Cuboid{
			Transform: c.Transform.Mul(op.c.Transform.Inverse()),
			Size:      c.Size.Div(op.c.Size),
		}
	case operandTransform:
		return Cuboid{Transform: c.Transform.Mul(op.m.Inverse()), Size: c.Size}
	}
	panic(invalidOperand("Div", op.kind))
}
