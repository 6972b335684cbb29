package evaluator

import (
	"math"
	"math/rand"
	"sort"

	"github.com/wildfunctions/expreval/pkg/registry"
)

// defaultConstants is spec §6's default constant table.
func defaultConstants() []registry.ConstantInfo {
	return []registry.ConstantInfo{
		{Name: "e", Value: math.E},
		{Name: "pi", Value: math.Pi},
	}
}

func fixed(name string, n int, fn registry.Callable) registry.FunctionInfo {
	return registry.FunctionInfo{Name: name, Kind: registry.FixedArity, NumParams: n, IsIdempotent: true, Fn: fn}
}

func dynamic(name string, fn registry.Callable) registry.FunctionInfo {
	return registry.FunctionInfo{Name: name, Kind: registry.DynamicArity, IsIdempotent: true, Fn: fn}
}

// nonzero implements the "nonzero ≡ true" convention for if's condition
// argument (the same convention pkg/exec/binary.go uses for And/Or).
// ifless/ifmore/ifequal compare their first two arguments instead.
func nonzero(v float64) bool { return v != 0 }

// defaultFunctions is spec §6's default function table: fixed-arity
// idempotent trig/log/rounding functions, dynamic-arity idempotent
// aggregates, and the single non-idempotent nullary `random`.
func defaultFunctions() []registry.FunctionInfo {
	return []registry.FunctionInfo{
		fixed("sin", 1, func(a []float64) float64 { return math.Sin(a[0]) }),
		fixed("cos", 1, func(a []float64) float64 { return math.Cos(a[0]) }),
		fixed("tan", 1, func(a []float64) float64 { return math.Tan(a[0]) }),
		fixed("asin", 1, func(a []float64) float64 { return math.Asin(a[0]) }),
		fixed("acos", 1, func(a []float64) float64 { return math.Acos(a[0]) }),
		fixed("atan", 1, func(a []float64) float64 { return math.Atan(a[0]) }),
		// csc = 1/sin, sec = 1/cos, cot = cos/sin, acot(x) = atan(1/x) (spec §6).
		fixed("csc", 1, func(a []float64) float64 { return 1 / math.Sin(a[0]) }),
		fixed("sec", 1, func(a []float64) float64 { return 1 / math.Cos(a[0]) }),
		fixed("cot", 1, func(a []float64) float64 { return math.Cos(a[0]) / math.Sin(a[0]) }),
		fixed("acot", 1, func(a []float64) float64 { return math.Atan(1 / a[0]) }),

		fixed("loge", 1, func(a []float64) float64 { return math.Log(a[0]) }),
		fixed("log10", 1, func(a []float64) float64 { return math.Log10(a[0]) }),
		fixed("logn", 2, func(a []float64) float64 { return math.Log(a[0]) / math.Log(a[1]) }),

		fixed("sqrt", 1, func(a []float64) float64 { return math.Sqrt(a[0]) }),
		fixed("abs", 1, func(a []float64) float64 { return math.Abs(a[0]) }),
		fixed("ceiling", 1, func(a []float64) float64 { return math.Ceil(a[0]) }),
		fixed("floor", 1, func(a []float64) float64 { return math.Floor(a[0]) }),
		fixed("truncate", 1, func(a []float64) float64 { return math.Trunc(a[0]) }),
		fixed("round", 1, func(a []float64) float64 { return math.Round(a[0]) }),

		fixed("if", 3, func(a []float64) float64 {
			if nonzero(a[0]) {
				return a[1]
			}
			return a[2]
		}),
		fixed("ifless", 4, func(a []float64) float64 {
			if a[0] < a[1] {
				return a[2]
			}
			return a[3]
		}),
		fixed("ifmore", 4, func(a []float64) float64 {
			if a[0] > a[1] {
				return a[2]
			}
			return a[3]
		}),
		fixed("ifequal", 4, func(a []float64) float64 {
			if a[0] == a[1] {
				return a[2]
			}
			return a[3]
		}),

		dynamic("max", func(a []float64) float64 {
			m := a[0]
			for _, v := range a[1:] {
				if v > m {
					m = v
				}
			}
			return m
		}),
		dynamic("min", func(a []float64) float64 {
			m := a[0]
			for _, v := range a[1:] {
				if v < m {
					m = v
				}
			}
			return m
		}),
		dynamic("avg", func(a []float64) float64 {
			var sum float64
			for _, v := range a {
				sum += v
			}
			return sum / float64(len(a))
		}),
		dynamic("median", median),
		dynamic("sum", func(a []float64) float64 {
			var sum float64
			for _, v := range a {
				sum += v
			}
			return sum
		}),

		// random is the one non-idempotent default: the optimizer must never
		// fold it, and evaluation order determines which draw a caller sees.
		{Name: "random", Kind: registry.FixedArity, NumParams: 0, IsIdempotent: false,
			Fn: func([]float64) float64 { return rand.Float64() }},
	}
}

func median(a []float64) float64 {
	sorted := make([]float64, len(a))
	copy(sorted, a)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
