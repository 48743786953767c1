package engine

import (
	"math"
	"strings"
	"testing"
)

func TestPreprocessKeywords(t *testing.T) {
	got := preprocessSource("(cuboid :size (vec3 1 1 1))")
	want := `(cuboid "__kw_size" (vec3 1 1 1))`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessKebabCase(t *testing.T) {
	got := preprocessSource("(intersects-strict a b)")
	if got != "(intersects_strict a b)" {
		t.Errorf("got %q", got)
	}
	// A real subtraction must survive.
	got = preprocessSource("(- 3 1)")
	if got != "(- 3 1)" {
		t.Errorf("subtraction mangled: %q", got)
	}
}

func TestPreprocessComments(t *testing.T) {
	got := preprocessSource(";; a comment\n(vec3 1 2 3)")
	if !strings.HasPrefix(got, "// a comment\n") {
		t.Errorf("got %q", got)
	}
}

func TestPreprocessStringsUntouched(t *testing.T) {
	src := `(println "keep :this and-that")`
	if got := preprocessSource(src); got != src {
		t.Errorf("string literal mangled: %q", got)
	}
}

// ---------------------------------------------------------------------------
// DSL builtins
// ---------------------------------------------------------------------------

func TestBuiltinVec3(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng, "(vec3 1 2.5 -3)")
	if res.Value != "(vec3 1 2.5 -3)" {
		t.Errorf("got %q", res.Value)
	}
}

func TestBuiltinCuboidDefaults(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng, "(cuboid)")
	if res.Cuboid == nil {
		t.Fatal("expected a cuboid result")
	}
	if res.Cuboid.Size.X != 0 || res.Cuboid.Size.Y != 0 || res.Cuboid.Size.Z != 0 {
		t.Errorf("default size = %v, want zero", res.Cuboid.Size)
	}
	p := res.Cuboid.Position()
	if p.X != 0 || p.Y != 0 || p.Z != 0 {
		t.Errorf("default position = %v, want origin", p)
	}
}

func TestBuiltinCuboidPlacement(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng, "(cuboid :size (vec3 1 2 3) :at (vec3 4 5 6))")
	if res.Cuboid == nil {
		t.Fatal("expected a cuboid result")
	}
	p := res.Cuboid.Position()
	if math.Abs(p.X-4) > 1e-9 || math.Abs(p.Y-5) > 1e-9 || math.Abs(p.Z-6) > 1e-9 {
		t.Errorf("position = %v", p)
	}
	if res.Cuboid.Size.Y != 2 {
		t.Errorf("size = %v", res.Cuboid.Size)
	}
}

func TestBuiltinCuboidRotation(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng, "(cuboid :size (vec3 2 2 2) :rotate (vec3 0 0 90))")
	if res.Cuboid == nil {
		t.Fatal("expected a cuboid result")
	}
	axes := res.Cuboid.Axes()
	// Local X should now point along world Y.
	if math.Abs(axes[0].X) > 1e-9 || math.Abs(axes[0].Y-1) > 1e-9 {
		t.Errorf("rotated local X = %v, want (0,1,0)", axes[0])
	}
}

func TestBuiltinIntersects(t *testing.T) {
	eng := NewEngine()

	res := evalOK(t, eng,
		`(intersects (cuboid :size (vec3 1 1 1))
		             (cuboid :size (vec3 1 1 1) :at (vec3 0.5 0 0)))`)
	if res.Value != "true" {
		t.Errorf("overlapping cubes: got %q, want true", res.Value)
	}

	res = evalOK(t, eng,
		`(intersects (cuboid :size (vec3 1 1 1))
		             (cuboid :size (vec3 1 1 1) :at (vec3 3 0 0)))`)
	if res.Value != "false" {
		t.Errorf("distant cubes: got %q, want false", res.Value)
	}
}

func TestBuiltinIntersectsEpsilonOverride(t *testing.T) {
	eng := NewEngine()

	// Exactly face-touching cubes: the default epsilon rejects them, a
	// zero epsilon admits the shared boundary.
	res := evalOK(t, eng,
		`(intersects (cuboid :size (vec3 1 1 1))
		             (cuboid :size (vec3 1 1 1) :at (vec3 1 0 0)))`)
	if res.Value != "false" {
		t.Errorf("default epsilon: got %q, want false", res.Value)
	}
	res = evalOK(t, eng,
		`(intersects (cuboid :size (vec3 1 1 1))
		             (cuboid :size (vec3 1 1 1) :at (vec3 1 0 0)) 0)`)
	if res.Value != "true" {
		t.Errorf("zero epsilon: got %q, want true", res.Value)
	}
}

func TestBuiltinIntersectsEngineEpsilonOption(t *testing.T) {
	// Cubes overlapping by 0.1: visible at the default tolerance,
	// swallowed by a 0.2 engine-wide epsilon.
	script := `(intersects (cuboid :size (vec3 1 1 1))
	                       (cuboid :size (vec3 1 1 1) :at (vec3 0.9 0 0)))`

	res := evalOK(t, NewEngine(), script)
	if res.Value != "true" {
		t.Errorf("default engine: got %q, want true", res.Value)
	}

	res = evalOK(t, NewEngineWithOptions(Options{Epsilon: 0.2}), script)
	if res.Value != "false" {
		t.Errorf("wide-epsilon engine: got %q, want false", res.Value)
	}
}

func TestBuiltinEnclosed(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng,
		`(enclosed (cuboid :size (vec3 1 1 1))
		           (cuboid :size (vec3 4 4 4)))`)
	if res.Value != "true" {
		t.Errorf("got %q, want true", res.Value)
	}
	res = evalOK(t, eng,
		`(enclosed (cuboid :size (vec3 4 4 4))
		           (cuboid :size (vec3 1 1 1)))`)
	if res.Value != "false" {
		t.Errorf("got %q, want false", res.Value)
	}
}

func TestBuiltinResolve(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng,
		`(resolve (cuboid :size (vec3 1 1 1))
		          (cuboid :size (vec3 1 1 1) :at (vec3 0.5 0 0)))`)
	if res.Cuboid == nil {
		t.Fatal("expected a cuboid result")
	}
	p := res.Cuboid.Position()
	if math.Abs(p.X+0.5) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("resolved position = %v, want (-0.5,0,0)", p)
	}
}

func TestBuiltinSnap(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng,
		`(position (snap (cuboid :size (vec3 1 1 1) :at (vec3 0.3 0.3 0.3)) 1))`)
	if res.Value != "(vec3 0.5 0.5 0.5)" {
		t.Errorf("got %q, want (vec3 0.5 0.5 0.5)", res.Value)
	}
}

func TestBuiltinSnapRejectsNonPositiveIncrement(t *testing.T) {
	eng := NewEngine()
	_, evalErrs, err := eng.Evaluate(`(snap (cuboid :size (vec3 1 1 1)) 0)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for a zero increment")
	}
}

func TestBuiltinBounds(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng, `(bounds (cuboid :size (vec3 2 4 6) :at (vec3 1 2 3)))`)
	want := "(bounds :min (vec3 0 0 0) :max (vec3 2 4 6))"
	if res.Value != want {
		t.Errorf("got %q, want %q", res.Value, want)
	}
}

func TestBuiltinVerticesAndSize(t *testing.T) {
	eng := NewEngine()

	res := evalOK(t, eng, `(size (cuboid :size (vec3 1 2 3)))`)
	if res.Value != "(vec3 1 2 3)" {
		t.Errorf("size: got %q", res.Value)
	}

	res = evalOK(t, eng, `(vertices (cuboid :size (vec3 2 2 2)))`)
	if !strings.HasPrefix(res.Value, "((vec3 1 1 1) (vec3 1 1 -1)") {
		t.Errorf("vertices: got %q", res.Value)
	}
}

func TestBuiltinTranslateAndRotateChain(t *testing.T) {
	eng := NewEngine()
	res := evalOK(t, eng,
		`(translate (rotate (cuboid :size (vec3 2 2 2)) (vec3 0 0 45))
		            (vec3 1 0 0))`)
	if res.Cuboid == nil {
		t.Fatal("expected a cuboid result")
	}
	p := res.Cuboid.Position()
	if math.Abs(p.X-1) > 1e-9 {
		t.Errorf("position = %v", p)
	}
	axes := res.Cuboid.Axes()
	halfSqrt2 := math.Sqrt2 / 2
	if math.Abs(axes[0].X-halfSqrt2) > 1e-9 || math.Abs(axes[0].Y-halfSqrt2) > 1e-9 {
		t.Errorf("rotated local X = %v", axes[0])
	}
}
