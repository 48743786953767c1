package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/cuboid/pkg/cuboid"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms cuboid Lisp source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: intersects-strict -> intersects_strict
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing geometry through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	v v3.Vec
}

func (s *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", s.v.X, s.v.Y, s.v.Z)
}
func (s *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpCuboid wraps a cuboid.Cuboid so it can flow between builtins.
type sexpCuboid struct {
	c cuboid.Cuboid
}

func (s *sexpCuboid) SexpString(ps *zygo.PrintState) string {
	p := s.c.Position()
	return fmt.Sprintf("(cuboid :at (vec3 %g %g %g) :size (vec3 %g %g %g))",
		p.X, p.Y, p.Z, s.c.Size.X, s.c.Size.Y, s.c.Size.Z)
}
func (s *sexpCuboid) Type() *zygo.RegisteredType { return nil }

// sexpBounds wraps an axis-aligned bounding box.
type sexpBounds struct {
	bb sdf.Box3
}

func (s *sexpBounds) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(bounds :min (vec3 %g %g %g) :max (vec3 %g %g %g))",
		s.bb.Min.X, s.bb.Min.Y, s.bb.Min.Z, s.bb.Max.X, s.bb.Max.Y, s.bb.Max.Z)
}
func (s *sexpBounds) Type() *zygo.RegisteredType { return nil }

// sexpVecList wraps a list of points (e.g. cuboid vertices).
type sexpVecList struct {
	vs []v3.Vec
}

func (s *sexpVecList) SexpString(ps *zygo.PrintState) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range s.vs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(vec3 %g %g %g)", v.X, v.Y, v.Z)
	}
	sb.WriteByte(')')
	return sb.String()
}
func (s *sexpVecList) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toCuboid extracts a cuboid.Cuboid from a sexpCuboid.
func toCuboid(s zygo.Sexp) (cuboid.Cuboid, error) {
	if c, ok := s.(*sexpCuboid); ok {
		return c.c, nil
	}
	return cuboid.Cuboid{}, fmt.Errorf("expected cuboid, got %T (%s)", s, s.SexpString(nil))
}

// cuboidPair extracts the two cuboid operands every binary predicate takes,
// plus an optional trailing epsilon override.
func cuboidPair(name string, args []zygo.Sexp, defaultEps float64) (cuboid.Cuboid, cuboid.Cuboid, float64, error) {
	if len(args) < 2 || len(args) > 3 {
		return cuboid.Cuboid{}, cuboid.Cuboid{}, 0,
			fmt.Errorf("%s: want 2 cuboids and an optional epsilon, got %d args", name, len(args))
	}
	a, err := toCuboid(args[0])
	if err != nil {
		return cuboid.Cuboid{}, cuboid.Cuboid{}, 0, fmt.Errorf("%s: %w", name, err)
	}
	b, err := toCuboid(args[1])
	if err != nil {
		return cuboid.Cuboid{}, cuboid.Cuboid{}, 0, fmt.Errorf("%s: %w", name, err)
	}
	eps := defaultEps
	if len(args) == 3 {
		eps, err = toFloat64(args[2])
		if err != nil {
			return cuboid.Cuboid{}, cuboid.Cuboid{}, 0, fmt.Errorf("%s: epsilon: %w", name, err)
		}
	}
	return a, b, eps, nil
}

// eulerDegrees builds a rotation from Z/Y/X Euler angles in degrees.
func eulerDegrees(v v3.Vec) sdf.M44 {
	const degToRad = math.Pi / 180.0
	return sdf.RotateZ(v.Z * degToRad).
		Mul(sdf.RotateY(v.Y * degToRad)).
		Mul(sdf.RotateX(v.X * degToRad))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the cuboid DSL into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, opts Options) {

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3: want 3 numbers, got %d args", len(args))
		}
		var v v3.Vec
		for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			*dst = f
		}
		return &sexpVec3{v: v}, nil
	})

	// -----------------------------------------------------------------------
	// (cuboid :size (vec3 1 1 1) :at (vec3 0 0 0) :rotate (vec3 0 0 45))
	// All keywords optional: zero size, origin placement, no rotation.
	// Rotation is Euler angles in degrees, applied Z then Y then X.
	// -----------------------------------------------------------------------
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		size := v3.Vec{}
		if s, ok := pa.kw["size"]; ok {
			v, err := toVec3(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: size: %w", err)
			}
			size = v
		}

		rot := sdf.Identity3d()
		if r, ok := pa.kw["rotate"]; ok {
			v, err := toVec3(r)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: rotate: %w", err)
			}
			rot = eulerDegrees(v)
		}

		transform := rot
		if p, ok := pa.kw["at"]; ok {
			v, err := toVec3(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: at: %w", err)
			}
			transform = sdf.Translate3d(v).Mul(rot)
		}

		return &sexpCuboid{c: cuboid.New(transform, size)}, nil
	})

	// -----------------------------------------------------------------------
	// (translate c (vec3 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate: want a cuboid and a vec3, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		v, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpCuboid{c: c.Add(cuboid.VecOperand(v))}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate c (vec3 0 0 45)): Euler degrees about the cuboid's own frame
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate: want a cuboid and a vec3, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		v, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return &sexpCuboid{c: c.Mul(cuboid.TransformOperand(eulerDegrees(v)))}, nil
	})

	// -----------------------------------------------------------------------
	// (contains c (vec3 0 0 0) [eps])
	// -----------------------------------------------------------------------
	env.AddFunction("contains", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 || len(args) > 3 {
			return zygo.SexpNull, fmt.Errorf("contains: want a cuboid, a point and an optional epsilon, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contains: %w", err)
		}
		p, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contains: %w", err)
		}
		eps := opts.Epsilon
		if len(args) == 3 {
			eps, err = toFloat64(args[2])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("contains: epsilon: %w", err)
			}
		}
		return &zygo.SexpBool{Val: c.ContainsPoint(p, eps)}, nil
	})

	// -----------------------------------------------------------------------
	// (intersects a b [eps]): honors the engine's strict-SAT option
	// -----------------------------------------------------------------------
	env.AddFunction("intersects", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, eps, err := cuboidPair("intersects", args, opts.Epsilon)
		if err != nil {
			return zygo.SexpNull, err
		}
		if opts.StrictSAT {
			return &zygo.SexpBool{Val: a.IntersectsStrict(b, eps)}, nil
		}
		return &zygo.SexpBool{Val: a.Intersects(b, eps)}, nil
	})

	// -----------------------------------------------------------------------
	// (intersects-strict a b [eps])
	// -----------------------------------------------------------------------
	env.AddFunction("intersects_strict", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, eps, err := cuboidPair("intersects-strict", args, opts.Epsilon)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: a.IntersectsStrict(b, eps)}, nil
	})

	// -----------------------------------------------------------------------
	// (enclosed a b [eps]): is a entirely inside b?
	// -----------------------------------------------------------------------
	env.AddFunction("enclosed", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, eps, err := cuboidPair("enclosed", args, opts.Epsilon)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: a.EnclosedBy(b, eps)}, nil
	})

	// -----------------------------------------------------------------------
	// (resolve movable static): push movable out of static
	// -----------------------------------------------------------------------
	env.AddFunction("resolve", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("resolve: want 2 cuboids, got %d args", len(args))
		}
		a, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("resolve: %w", err)
		}
		b, err := toCuboid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("resolve: %w", err)
		}
		return &sexpCuboid{c: a.ResolveIntersection(b)}, nil
	})

	// -----------------------------------------------------------------------
	// (snap c increment)
	// -----------------------------------------------------------------------
	env.AddFunction("snap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("snap: want a cuboid and an increment, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("snap: %w", err)
		}
		inc, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("snap: %w", err)
		}
		// The Go API treats a non-positive increment as a contract
		// violation; at the script boundary it is an ordinary error.
		if inc <= 0 {
			return zygo.SexpNull, fmt.Errorf("snap: increment must be positive, got %v", inc)
		}
		return &sexpCuboid{c: c.SnapToIncrement(inc)}, nil
	})

	// -----------------------------------------------------------------------
	// (bounds c): axis-aligned bounding box
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("bounds: want a cuboid, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bounds: %w", err)
		}
		return &sexpBounds{bb: c.BoundingBox()}, nil
	})

	// -----------------------------------------------------------------------
	// (vertices c), (position c), (size c)
	// -----------------------------------------------------------------------
	env.AddFunction("vertices", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("vertices: want a cuboid, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertices: %w", err)
		}
		return &sexpVecList{vs: c.Vertices()}, nil
	})

	env.AddFunction("position", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("position: want a cuboid, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("position: %w", err)
		}
		return &sexpVec3{v: c.Position()}, nil
	})

	env.AddFunction("size", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("size: want a cuboid, got %d args", len(args))
		}
		c, err := toCuboid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("size: %w", err)
		}
		return &sexpVec3{v: c.Size}, nil
	})
}
