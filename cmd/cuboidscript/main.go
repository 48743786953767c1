// Command cuboidscript evaluates cuboid geometry scripts.
//
// It reads a script from a file argument, the -e flag, or stdin, runs it
// through the sandboxed engine, and prints the final value. Engine
// behavior (tolerance, strict SAT, evaluation timeout) can be set in an
// optional TOML config file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/chazu/cuboid/pkg/engine"
)

// config holds the engine settings read from the TOML config file.
type config struct {
	Epsilon     float64  `toml:"epsilon"`
	StrictSAT   bool     `toml:"strict-sat"`
	EvalTimeout duration `toml:"eval-timeout"`
}

// duration wraps time.Duration so TOML can parse "5s" style values.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

var (
	isDebug    = flag.Bool("debug", false, "Enable debug log output")
	configPath = flag.String("config", "", "Path to a TOML config file")
	expr       = flag.String("e", "", "Evaluate the given expression instead of a script file")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	if *isDebug {
		logger = unwrap(zap.NewDevelopment())
	} else {
		logger = unwrap(zap.NewProduction())
	}
	defer func() {
		_ = logger.Sync()
	}()

	var cfg config
	if *configPath != "" {
		meta, err := toml.DecodeFile(*configPath, &cfg)
		if err != nil {
			logger.Fatal("reading config", zap.String("path", *configPath), zap.Error(err))
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			logger.Warn("unknown config keys", zap.Any("keys", undecoded))
		}
	}

	source, name, err := readSource()
	if err != nil {
		logger.Fatal("reading script", zap.Error(err))
	}

	eng := engine.NewEngineWithOptions(engine.Options{
		Epsilon:   cfg.Epsilon,
		StrictSAT: cfg.StrictSAT,
		Timeout:   cfg.EvalTimeout.Duration,
	})

	start := time.Now()
	res, evalErrs, err := eng.Evaluate(source)
	logger.Debug("evaluation finished",
		zap.String("script", name),
		zap.Duration("elapsed", time.Since(start)))

	if err != nil {
		logger.Fatal("evaluation failed", zap.String("script", name), zap.Error(err))
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, e.Error())
		}
		os.Exit(1)
	}

	if res.Value != "" {
		fmt.Println(res.Value)
	}
}

// readSource picks the script source: -e expression, file argument, or
// stdin, in that order.
func readSource() (source, name string, err error) {
	if *expr != "" {
		return *expr, "<expression>", nil
	}
	if flag.NArg() > 0 {
		path := flag.Arg(0)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(data), path, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", err
	}
	return string(data), "<stdin>", nil
}

// unwrap returns its value argument, panicking on a non-nil error. Used
// for constructors that cannot reasonably fail at startup.
func unwrap[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
