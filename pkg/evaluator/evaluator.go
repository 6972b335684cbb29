// Package evaluator assembles the tokenizer, parser, validator, optimizer,
// executors and formula cache into the single library surface spec §6
// describes. Grounded on pkg/engine/engine.go's New(cfg) (*Engine, error)
// constructor and method-per-operation shape.
package evaluator

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/wildfunctions/expreval/pkg/ast"
	"github.com/wildfunctions/expreval/pkg/cache"
	"github.com/wildfunctions/expreval/pkg/exec"
	"github.com/wildfunctions/expreval/pkg/lexer"
	"github.com/wildfunctions/expreval/pkg/optimizer"
	"github.com/wildfunctions/expreval/pkg/parser"
	"github.com/wildfunctions/expreval/pkg/registry"
	"github.com/wildfunctions/expreval/pkg/validator"
)

// Delegate is a compiled binding to a single formula, returned by
// CreateDelegate (spec §6): calling it re-evaluates the same parsed (and,
// if enabled, optimized) tree against new variable bindings without
// re-tokenizing or re-parsing.
type Delegate func(vars map[string]float64) (float64, error)

// builtFormula is what the cache stores per source-text key: everything
// needed to evaluate the formula under either executor.
type builtFormula struct {
	node     ast.Node
	freeVars []string
	compiled *exec.Compiled
}

// Evaluator is the library's single entry point (spec §6's "library
// surface"): Evaluate, CreateDelegate, Validate, and read-only access to
// the resolved function/constant names.
type Evaluator struct {
	cfg Config

	functions *registry.FunctionRegistry
	constants *registry.ConstantRegistry

	interp *exec.Interpreter
	opt    *optimizer.Optimizer
	cache  *cache.FormulaCache

	logger log.Logger
}

// New builds an Evaluator from cfg: registers default and user constants
// and functions, wires the optimizer/cache per cfg's toggles, and (in
// guarded mode) checks that no name is registered as both a function and
// a constant.
func New(cfg Config) (*Evaluator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	functions := registry.NewFunctionRegistry(cfg.CaseSensitive, cfg.GuardedModeEnabled)
	constants := registry.NewConstantRegistry(cfg.CaseSensitive, cfg.GuardedModeEnabled)

	if cfg.DefaultConstants {
		for _, c := range defaultConstants() {
			if err := constants.Register(c.Name, c.Value); err != nil {
				return nil, errors.Wrap(err, "evaluator: registering default constant")
			}
		}
	}
	if cfg.DefaultFunctions {
		for _, f := range defaultFunctions() {
			if err := registerFunction(functions, f); err != nil {
				return nil, errors.Wrap(err, "evaluator: registering default function")
			}
		}
	}
	for _, c := range cfg.Constants {
		if err := constants.Register(c.Name, c.Value); err != nil {
			return nil, errors.Wrap(err, "evaluator: registering user constant")
		}
	}
	for _, f := range cfg.Functions {
		if err := registerFunction(functions, f.toInfo()); err != nil {
			return nil, errors.Wrap(err, "evaluator: registering user function")
		}
	}

	if cfg.GuardedModeEnabled {
		if err := registry.CheckCollisions(functions, constants); err != nil {
			return nil, err
		}
	}

	e := &Evaluator{
		cfg:       cfg,
		functions: functions,
		constants: constants,
		interp:    exec.NewInterpreter(functions, constants, cfg.CaseSensitive),
		logger:    logger,
	}
	if cfg.OptimizerEnabled {
		e.opt = optimizer.New(functions, constants, cfg.CaseSensitive)
	}
	if cfg.CacheEnabled {
		c, err := cache.New(cfg.CacheMaximumSize, cfg.CacheReductionSize, logger, cfg.MetricsRegisterer)
		if err != nil {
			return nil, errors.Wrap(err, "evaluator: creating formula cache")
		}
		e.cache = c
	}

	level.Info(logger).Log(
		"msg", "evaluator constructed",
		"functions", len(functions.Names()),
		"constants", len(constants.Names()),
		"cache_enabled", cfg.CacheEnabled,
		"guarded_mode", cfg.GuardedModeEnabled,
	)
	return e, nil
}

func registerFunction(functions *registry.FunctionRegistry, info registry.FunctionInfo) error {
	if err := registry.ValidateRegistration(info); err != nil {
		return err
	}
	return functions.Register(info)
}

// Functions enumerates every registered function name (spec §6).
func (e *Evaluator) Functions() []string { return e.functions.Names() }

// Constants enumerates every registered constant name (spec §6).
func (e *Evaluator) Constants() []string { return e.constants.Names() }

// Validate tokenizes and parses expression (running the validator first
// when enabled) without executing it, surfacing the same typed errors
// Evaluate would (spec §6: `validate(expression) → () | ParseException`).
func (e *Evaluator) Validate(expression string) error {
	tokens, err := lexer.Tokenize(expression, e.cfg.DecimalSeparator, e.cfg.ArgumentSeparator)
	if err != nil {
		return err
	}
	if e.cfg.ValidationEnabled {
		if err := validator.Validate(tokens, e.functions); err != nil {
			return err
		}
	}
	_, err = parser.Parse(tokens, e.functions, e.constants)
	return err
}

// Evaluate runs expression once against vars (spec §6). The parsed (and
// optimized/cached) tree is reused across calls with the same source text.
func (e *Evaluator) Evaluate(expression string, vars map[string]float64) (float64, error) {
	f, err := e.build(expression)
	if err != nil {
		return 0, err
	}
	return e.run(f, vars)
}

// CreateDelegate builds expression once and returns a Delegate bound to
// it (spec §6), so a caller evaluating the same formula many times over
// varying bindings pays the tokenize/parse/optimize cost only once beyond
// what the formula cache already amortizes.
func (e *Evaluator) CreateDelegate(expression string) (Delegate, error) {
	f, err := e.build(expression)
	if err != nil {
		return nil, err
	}
	return func(vars map[string]float64) (float64, error) {
		return e.run(f, vars)
	}, nil
}

func (e *Evaluator) run(f *builtFormula, vars map[string]float64) (float64, error) {
	if e.cfg.GuardedModeEnabled {
		if err := registry.CheckVariablesDefined(f.freeVars, vars, e.constants, e.cfg.CaseSensitive); err != nil {
			return 0, err
		}
	}
	if e.cfg.ExecutionMode == Compiled {
		return f.compiled.Eval(vars)
	}
	return e.interp.Eval(f.node, vars)
}

func (e *Evaluator) build(expression string) (*builtFormula, error) {
	if e.cache == nil {
		return e.compile(expression)
	}
	v, err := e.cache.GetOrBuild(expression, func(src string) (interface{}, error) {
		return e.compile(src)
	})
	if err != nil {
		return nil, err
	}
	return v.(*builtFormula), nil
}

func (e *Evaluator) compile(expression string) (*builtFormula, error) {
	tokens, err := lexer.Tokenize(expression, e.cfg.DecimalSeparator, e.cfg.ArgumentSeparator)
	if err != nil {
		return nil, err
	}
	if e.cfg.ValidationEnabled {
		if err := validator.Validate(tokens, e.functions); err != nil {
			return nil, err
		}
	}
	node, err := parser.Parse(tokens, e.functions, e.constants)
	if err != nil {
		return nil, err
	}
	if e.opt != nil {
		node = e.opt.Optimize(node)
	}

	f := &builtFormula{node: node, freeVars: ast.FreeVariables(node)}
	if e.cfg.ExecutionMode == Compiled {
		compiled, err := exec.Compile(node, e.functions, e.constants, e.cfg.CaseSensitive)
		if err != nil {
			return nil, err
		}
		f.compiled = compiled
	}
	return f, nil
}
