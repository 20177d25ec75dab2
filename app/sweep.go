package app

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/gridmix/core/model"
)

// Scenarios returns the cartesian product of utilization factors and market
// prices. An empty list leaves that input as observed or configured.
func Scenarios(utilizations, prices []float64) []Overrides {
	us := make([]*float64, 0, len(utilizations))
	for i := range utilizations {
		us = append(us, &utilizations[i])
	}
	if len(us) == 0 {
		us = append(us, nil)
	}
	ps := make([]*float64, 0, len(prices))
	for i := range prices {
		ps = append(ps, &prices[i])
	}
	if len(ps) == 0 {
		ps = append(ps, nil)
	}

	out := make([]Overrides, 0, len(us)*len(ps))
	for _, u := range us {
		for _, p := range ps {
			out = append(out, Overrides{Scenario: scenarioName(u, p), UtilizationFactor: u, MarketPrice: p})
		}
	}
	return out
}

func scenarioName(u, p *float64) string {
	name := "baseline"
	if u != nil {
		name = fmt.Sprintf("u=%.2f", *u)
	}
	if p != nil {
		if u == nil {
			return fmt.Sprintf("p=%.2f", *p)
		}
		name += fmt.Sprintf(" p=%.2f", *p)
	}
	return name
}

// Sweep evaluates obs under every scenario in parallel. Outcomes keep the
// order of scenarios and are not recorded.
func (s *Service) Sweep(ctx context.Context, obs model.Observations, scenarios []Overrides) ([]Outcome, error) {
	out := make([]Outcome, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ov := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := s.Evaluate(obs, ov)
			if err != nil {
				return err
			}
			out[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
