package optim

import (
	"context"
	"math"

	"github.com/lfelipessoa/kinsim/internal/harness"
	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// GridSearch exhaustively evaluates the cross product of parameter value
// lists. Derivative-free alternative to Minimize for rough landscapes.
type GridSearch struct {
	names  []string
	values [][]float64
}

func NewGridSearch(names []string, values [][]float64) *GridSearch {
	return &GridSearch{names: names, values: values}
}

// Search returns the grid point with the smallest defined response time.
// Grid points with undefined response are skipped.
func (g *GridSearch) Search(ctx context.Context, sc harness.Scenario) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	current := make(map[string]float64, len(g.names))
	err := g.walk(ctx, sc, 0, current, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) walk(
	ctx context.Context,
	sc harness.Scenario,
	depth int,
	current map[string]float64,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.names) {
		setup := func(m *kinet.Model) error {
			for name, v := range current {
				if err := m.Set(name, v); err != nil {
					return err
				}
			}
			return nil
		}

		rt, err := sc.ResponseTime(ctx, setup)
		if err != nil {
			return err
		}
		if rt.Defined && rt.Seconds < *best {
			*best = rt.Seconds
			snapshot := make(map[string]float64, len(current))
			for k, v := range current {
				snapshot[k] = v
			}
			*bestParams = snapshot
		}
		return nil
	}

	for _, v := range g.values[depth] {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		current[g.names[depth]] = v
		if err := g.walk(ctx, sc, depth+1, current, best, bestParams); err != nil {
			return err
		}
	}
	delete(current, g.names[depth])
	return nil
}
