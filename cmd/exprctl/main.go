// Command exprctl evaluates a single expression against name=value
// variable bindings given on the command line.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wildfunctions/expreval/pkg/evaluator"
)

func main() {
	cfg := evaluator.DefaultConfig()

	var (
		expr       string
		varsFlag   string
		caseSens   = cfg.CaseSensitive
		compiled   bool
		noOptimize bool
		noValidate bool
		guarded    bool
	)

	flag.StringVar(&expr, "expr", "", "expression to evaluate (required)")
	flag.StringVar(&varsFlag, "vars", "", "comma-separated name=value bindings, e.g. x=1,y=2")
	flag.BoolVar(&caseSens, "case-sensitive", caseSens, "case-sensitive identifier lookup")
	flag.BoolVar(&compiled, "compiled", false, "use the compiled executor instead of the interpreter")
	flag.BoolVar(&noOptimize, "no-optimize", false, "disable constant folding and algebraic simplification")
	flag.BoolVar(&noValidate, "no-validate", false, "disable the pre-parse validator")
	flag.BoolVar(&guarded, "guarded", false, "enable guarded mode (rejects incomplete variable maps)")
	flag.Parse()

	if expr == "" {
		fmt.Fprintln(os.Stderr, "error: -expr is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg.CaseSensitive = caseSens
	cfg.OptimizerEnabled = !noOptimize
	cfg.ValidationEnabled = !noValidate
	cfg.GuardedModeEnabled = guarded
	if compiled {
		cfg.ExecutionMode = evaluator.Compiled
	}

	vars, err := parseVars(varsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing -vars: %v\n", err)
		os.Exit(1)
	}

	e, err := evaluator.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	result, err := e.Evaluate(expr, vars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "%v\n", result)
}

func parseVars(flagValue string) (map[string]float64, error) {
	vars := make(map[string]float64)
	if flagValue == "" {
		return vars, nil
	}
	for _, pair := range strings.Split(flagValue, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, valueStr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed binding %q, expected name=value", pair)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed value in %q: %w", pair, err)
		}
		vars[strings.TrimSpace(name)] = value
	}
	return vars, nil
}
