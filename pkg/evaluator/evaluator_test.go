package evaluator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/expreval/pkg/exec"
	"github.com/wildfunctions/expreval/pkg/registry"
)

func newEvaluator(t *testing.T, mutate func(*Config)) *Evaluator {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

// The boundary-scenario table (spec §8), run once per execution mode.

func TestBoundaryScenarios(t *testing.T) {
	for _, mode := range []ExecutionMode{Interpreted, Compiled} {
		mode := mode
		t.Run(modeName(mode), func(t *testing.T) {
			e := newEvaluator(t, func(c *Config) {
				c.ExecutionMode = mode
				require.NoError(t, registerIdent(c))
			})

			cases := []struct {
				name string
				expr string
				vars map[string]float64
				want float64
			}{
				{"1", "(2+3)*500", nil, 2500.0},
				{"2", "var1 * 0.0", map[string]float64{"var1": math.NaN()}, 0.0},
				{"3", "0 / var1", map[string]float64{"var1": 5}, 0.0},
				{"4", "0 ^ 0", nil, 1.0},
				{"5", "(var1 + var2*var3/2)*0 + 0/(var1 + var2*var3/2) + (var1 + var2*var3/2)^0",
					map[string]float64{"var1": 3, "var2": 4, "var3": 5}, 1.0},
				{"6", "sin(0 * var1)", map[string]float64{"var1": 7}, 0.0},
				{"7", "ident(a)+ident(a*b)+ident((a+b)*c)+c", map[string]float64{"a": 1, "b": 2, "c": 3}, 15.0},
				{"8", "if(a>b, c, d)", map[string]float64{"a": 1, "b": 0, "c": 7, "d": 9}, 7.0},
				{"9", "max(1,2,3,-4)", nil, 3.0},
			}
			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					got, err := e.Evaluate(tc.expr, tc.vars)
					require.NoError(t, err)
					assert.Equal(t, tc.want, got)
				})
			}
		})
	}
}

func modeName(m ExecutionMode) string {
	if m == Compiled {
		return "compiled"
	}
	return "interpreted"
}

func registerIdent(c *Config) error {
	c.Functions = append(c.Functions, FunctionDef{
		Name: "ident", NumParams: 1, IsIdempotent: true,
		Fn: func(a []float64) float64 { return a[0] },
	})
	return nil
}

func TestBoundaryScenario10UndefinedVariable(t *testing.T) {
	e := newEvaluator(t, nil)
	_, err := e.Evaluate("unknownVar+1", map[string]float64{})
	require.Error(t, err)
	var varErr *exec.VariableNotDefinedError
	require.ErrorAs(t, err, &varErr)
	assert.Equal(t, "unknownVar", varErr.Name)
}

func TestEvaluateWithoutVariables(t *testing.T) {
	e := newEvaluator(t, nil)
	got, err := e.Evaluate("2^10", nil)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, got)
}

func TestCreateDelegateReusesParsedFormula(t *testing.T) {
	e := newEvaluator(t, nil)
	delegate, err := e.CreateDelegate("x*x+1")
	require.NoError(t, err)

	v, err := delegate(map[string]float64{"x": 3})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = delegate(map[string]float64{"x": 4})
	require.NoError(t, err)
	assert.Equal(t, 17.0, v)
}

func TestValidateAcceptsWellFormedExpression(t *testing.T) {
	e := newEvaluator(t, nil)
	assert.NoError(t, e.Validate("sin(x) + max(1,2,3)"))
}

func TestValidateRejectsMalformedExpression(t *testing.T) {
	e := newEvaluator(t, nil)
	assert.Error(t, e.Validate("1 + "))
	assert.Error(t, e.Validate("sin(1, 2)"))
	assert.Error(t, e.Validate("(1 + 2"))
}

func TestFunctionsAndConstantsEnumeration(t *testing.T) {
	e := newEvaluator(t, nil)
	assert.Contains(t, e.Functions(), "sin")
	assert.Contains(t, e.Functions(), "median")
	assert.Contains(t, e.Constants(), "pi")
	assert.Contains(t, e.Constants(), "e")
}

func TestGuardedModeRejectsFunctionConstantCollision(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GuardedModeEnabled = true
	cfg.Constants = append(cfg.Constants, ConstantDef{Name: "sin", Value: 1})
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestGuardedModeRejectsIncompleteVariableMap(t *testing.T) {
	e := newEvaluator(t, func(c *Config) { c.GuardedModeEnabled = true })
	_, err := e.Evaluate("x+y", map[string]float64{"x": 1})
	assert.Error(t, err)
}

func TestGuardedModeRejectsRedefinition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GuardedModeEnabled = true
	cfg.Functions = []FunctionDef{
		{Name: "sin", NumParams: 1, IsIdempotent: true, Fn: func(a []float64) float64 { return a[0] }},
	}
	_, err := New(cfg)
	assert.Error(t, err, "sin is already a default function; guarded mode must reject the redefinition")
}

func TestNonGuardedModeAllowsRedefinitionWithSameArity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Functions = []FunctionDef{
		{Name: "sin", NumParams: 1, IsIdempotent: true, Fn: func(a []float64) float64 { return 99 }},
	}
	e, err := New(cfg)
	require.NoError(t, err)
	got, err := e.Evaluate("sin(0)", nil)
	require.NoError(t, err)
	assert.Equal(t, 99.0, got)
}

func TestNaNPropagatesRatherThanErroring(t *testing.T) {
	e := newEvaluator(t, nil)
	got, err := e.Evaluate("sqrt(-1)", nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestDivisionByZeroProducesInfinity(t *testing.T) {
	e := newEvaluator(t, func(c *Config) { c.OptimizerEnabled = false })
	got, err := e.Evaluate("1/0", nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestCacheReusesCompiledFormula(t *testing.T) {
	e := newEvaluator(t, nil)
	got1, err := e.Evaluate("1+1", nil)
	require.NoError(t, err)
	got2, err := e.Evaluate("1+1", nil)
	require.NoError(t, err)
	assert.Equal(t, got1, got2)
	assert.Equal(t, 1, e.cache.Len())
}

func TestCaseInsensitiveDefaultLookup(t *testing.T) {
	e := newEvaluator(t, nil)
	got, err := e.Evaluate("SIN(0) + PI", nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, got, 1e-9)
}

func TestUserFunctionOverridingDefaultKeepsArity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Functions = []FunctionDef{
		{Name: "sqrt", NumParams: 1, Dynamic: true, IsIdempotent: true, Fn: func(a []float64) float64 { return a[0] }},
	}
	_, err := New(cfg)
	assert.Error(t, err, "overriding fixed-arity sqrt with a dynamic-arity function must be rejected")
}

func TestConfigRejectsEqualSeparators(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArgumentSeparator = cfg.DecimalSeparator
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestConfigRejectsInvalidCacheSizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheReductionSize = cfg.CacheMaximumSize + 1
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestUnknownIdentifierValidateError(t *testing.T) {
	e := newEvaluator(t, nil)
	assert.Error(t, e.Validate("bogusFn(1,2)"))
}

func TestRegistryKindSanity(t *testing.T) {
	// median must actually compute a median, not just be present.
	e := newEvaluator(t, nil)
	got, err := e.Evaluate("median(1,2,3,4)", nil)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)

	_, ok := registry.NewFunctionRegistry(true, false).Lookup("median")
	assert.False(t, ok, "sanity check: a fresh registry starts empty")
}
