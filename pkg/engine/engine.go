// Package engine provides a Lisp evaluation engine for cuboid geometry.
// It wraps zygomys in a sandboxed environment, registers the cuboid DSL
// builtins, and evaluates user scripts into geometric values.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/cuboid/pkg/cuboid"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Options configures an Engine.
type Options struct {
	// Epsilon is the tolerance the geometric builtins use when a script
	// does not pass one explicitly. Zero means cuboid.DefaultEpsilon.
	Epsilon float64

	// StrictSAT makes the intersects builtin use the full 15-axis
	// separating-axis test instead of the 12 face-normal axes.
	StrictSAT bool

	// Timeout is the hard limit for a single evaluation.
	// Zero means EvalTimeout.
	Timeout time.Duration
}

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the outcome of a successful evaluation: the printed form of
// the script's final value, plus typed access when that value is geometric.
type Result struct {
	// Value is the final expression's printed representation.
	Value string

	// Cuboid is set when the final value is a cuboid.
	Cuboid *cuboid.Cuboid
}

// Engine wraps the zygomys interpreter for cuboid scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	opts       Options
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine with default options.
func NewEngine() *Engine {
	return NewEngineWithOptions(Options{})
}

// NewEngineWithOptions creates an Engine with the given options.
func NewEngineWithOptions(opts Options) *Engine {
	if opts.Epsilon == 0 {
		opts.Epsilon = cuboid.DefaultEpsilon
	}
	if opts.Timeout == 0 {
		opts.Timeout = EvalTimeout
	}
	return &Engine{opts: opts}
}

// Evaluate runs a cuboid script and returns its result.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.opts.Timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	// Empty source is a valid program with an empty result.
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.opts)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	val, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	res := &Result{}
	if val != nil {
		res.Value = val.SexpString(nil)
	}
	if sc, ok := val.(*sexpCuboid); ok {
		c := sc.c
		res.Cuboid = &c
	}
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{
			Line:    line,
			Message: strings.TrimSpace(m[2]),
		}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{
			Line:    line,
			Message: strings.TrimSpace(m[2]),
		}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
