package evaluator

import (
	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wildfunctions/expreval/pkg/registry"
)

// ExecutionMode selects which of the two executors (spec §4.5/§4.6) an
// Evaluator's built formulas run on.
type ExecutionMode int

const (
	Interpreted ExecutionMode = iota
	Compiled
)

// ConstantDef is a user-supplied name/value pair (spec §6's `constants`
// configuration list).
type ConstantDef struct {
	Name  string
	Value float64
}

// FunctionDef is a user-supplied function registration (spec §6's
// `functions` configuration list). Dynamic functions accept any number
// (>=1) of arguments; fixed-arity functions accept exactly NumParams.
type FunctionDef struct {
	Name         string
	NumParams    int
	Dynamic      bool
	IsIdempotent bool
	Fn           registry.Callable
}

func (f FunctionDef) toInfo() registry.FunctionInfo {
	kind := registry.FixedArity
	if f.Dynamic {
		kind = registry.DynamicArity
	}
	return registry.FunctionInfo{
		Name:         f.Name,
		Kind:         kind,
		NumParams:    f.NumParams,
		IsIdempotent: f.IsIdempotent,
		Fn:           f.Fn,
	}
}

// Config is consumed once, at construction (spec §6's configuration
// record). Grounded on pkg/engine/config.go's plain-struct-plus-
// DefaultConfig shape.
type Config struct {
	CaseSensitive     bool
	DecimalSeparator  rune
	ArgumentSeparator rune

	ExecutionMode      ExecutionMode
	OptimizerEnabled   bool
	ValidationEnabled  bool
	GuardedModeEnabled bool

	CacheEnabled       bool
	CacheMaximumSize   int
	CacheReductionSize int

	DefaultConstants bool
	DefaultFunctions bool
	Constants        []ConstantDef
	Functions        []FunctionDef

	// Logger and MetricsRegisterer are ambient, not part of spec §6's
	// configuration record proper, but every constructor in this codebase
	// takes an optional logger/registerer the way pkg/cache's does.
	Logger            log.Logger
	MetricsRegisterer prometheus.Registerer
}

// DefaultConfig returns the configuration spec §6 describes as the
// library's ordinary defaults: case-insensitive, `.`/`,` separators,
// interpreted execution, optimizer/validation/cache all on, guarded mode
// off, default constants and functions pre-registered.
func DefaultConfig() Config {
	return Config{
		CaseSensitive:      false,
		DecimalSeparator:   '.',
		ArgumentSeparator:  ',',
		ExecutionMode:      Interpreted,
		OptimizerEnabled:   true,
		ValidationEnabled:  true,
		GuardedModeEnabled: false,
		CacheEnabled:       true,
		CacheMaximumSize:   512,
		CacheReductionSize: 256,
		DefaultConstants:   true,
		DefaultFunctions:   true,
	}
}

func (c Config) validate() error {
	if c.DecimalSeparator == 0 || c.ArgumentSeparator == 0 {
		return errors.New("evaluator: decimal and argument separators must be set")
	}
	if c.DecimalSeparator == c.ArgumentSeparator {
		return errors.New("evaluator: argument separator must differ from the decimal separator")
	}
	if c.CacheEnabled {
		if c.CacheMaximumSize <= 0 || c.CacheReductionSize <= 0 {
			return errors.New("evaluator: cache sizes must be positive when caching is enabled")
		}
		if c.CacheReductionSize > c.CacheMaximumSize {
			return errors.New("evaluator: cache reduction size cannot exceed the maximum size")
		}
	}
	return nil
}
