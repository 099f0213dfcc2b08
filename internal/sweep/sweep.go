// Package sweep evaluates a generator over the cartesian product of
// parameter values and ranks the combinations by a metric.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/generators"
	"github.com/san-kum/flowsynth/internal/grid"
	"github.com/san-kum/flowsynth/internal/metrics"
)

// Axis is one swept parameter.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis parses "name=lo:hi:n" (n evenly spaced values) or
// "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" || spec == "" {
		return Axis{}, fmt.Errorf("sweep: axis %q: want name=lo:hi:n or name=v1,v2", s)
	}
	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return Axis{}, fmt.Errorf("sweep: axis %q: bad range", s)
		}
		vals := make([]float64, n)
		if n == 1 {
			vals[0] = lo
		} else {
			floats.Span(vals, lo, hi)
		}
		return Axis{Name: name, Values: vals}, nil
	}
	var vals []float64
	for _, p := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("sweep: axis %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	return Axis{Name: name, Values: vals}, nil
}

// Result is one evaluated combination.
type Result struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

type Sweep struct {
	Registry  *generators.Registry
	Generator string
	Steps     int
	Grid      grid.Grid
	// Base is applied before each combination's values.
	Base    map[string]float64
	Workers int
	// Metrics builds a fresh metric set per combination; nil means
	// metrics.Default.
	Metrics func() []metrics.Metric
}

// Combinations expands the axes in order, the last axis varying fastest.
func Combinations(axes []Axis) []map[string]float64 {
	out := []map[string]float64{{}}
	for _, ax := range axes {
		next := make([]map[string]float64, 0, len(out)*len(ax.Values))
		for _, cur := range out {
			for _, v := range ax.Values {
				m := make(map[string]float64, len(cur)+1)
				for k, x := range cur {
					m[k] = x
				}
				m[ax.Name] = v
				next = append(next, m)
			}
		}
		out = next
	}
	return out
}

// Run evaluates every combination on a bounded set of workers. Per
// combination failures are recorded in Result.Err; Run itself fails only when
// ctx is cancelled. Results keep the order of Combinations.
func (s *Sweep) Run(ctx context.Context, axes []Axis) ([]Result, error) {
	combos := Combinations(axes)
	results := make([]Result, len(combos))

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(combos))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.evaluate(ctx, combos[idx])
			}
		}()
	}

	for i := range combos {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Sweep) evaluate(ctx context.Context, combo map[string]float64) Result {
	params := make(map[string]float64, len(s.Base)+len(combo))
	for k, v := range s.Base {
		params[k] = v
	}
	for k, v := range combo {
		params[k] = v
	}
	res := Result{Params: combo}

	var pair *field.Pair
	pair, res.Err = s.Registry.Generate(ctx, s.Generator, s.Steps, s.Grid, params)
	if res.Err != nil {
		return res
	}
	ms := metrics.Default()
	if s.Metrics != nil {
		ms = s.Metrics()
	}
	res.Metrics = metrics.Evaluate(pair, s.Grid, ms...)
	return res
}

// Best returns the successful result with the smallest (or largest, when
// maximize is set) value of metric. ok is false if no result carries it.
func Best(results []Result, metric string, maximize bool) (best Result, ok bool) {
	bestVal := math.Inf(1)
	if maximize {
		bestVal = math.Inf(-1)
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		v, has := r.Metrics[metric]
		if !has || math.IsNaN(v) {
			continue
		}
		if (!maximize && v < bestVal) || (maximize && v > bestVal) {
			bestVal, best, ok = v, r, true
		}
	}
	return best, ok
}

// Rank sorts successful results by metric, best first. Failed results are
// dropped.
func Rank(results []Result, metric string, maximize bool) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if _, has := r.Metrics[metric]; r.Err == nil && has {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Metrics[metric], out[j].Metrics[metric]
		if maximize {
			return a > b
		}
		return a < b
	})
	return out
}
