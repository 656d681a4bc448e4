package pipeline

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/twd38/alamo-app-sub003/pkg/analytics"
	"github.com/twd38/alamo-app-sub003/pkg/site"
)

// LotResult holds every scenario evaluated for one lot, in scheme order.
type LotResult struct {
	Lot       site.Lot   `json:"lot"`
	Scenarios []Scenario `json:"scenarios"`
}

// Progress receives one tick per completed (lot, scheme) pair.
type Progress interface {
	Increment() int
}

// Screener evaluates many lots concurrently, one task per (lot, scheme)
// pair. The zero value is usable.
type Screener struct {
	// Workers bounds concurrent tasks. Zero means GOMAXPROCS.
	Workers  int
	Logger   *zap.Logger
	Progress Progress
}

// Screen evaluates every lot against every scheme. Results keep lot order
// and scheme order regardless of completion order. Pairs that fail input
// validation are recorded with Scenario.Err and do not stop the batch; the
// only error returned is the context's.
func (s *Screener) Screen(ctx context.Context, lots []site.Lot, schemes []site.SchemeTemplate, a site.FinanceAssumptions) ([]LotResult, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]LotResult, len(lots))
	for i, l := range lots {
		results[i] = LotResult{Lot: l, Scenarios: make([]Scenario, len(schemes))}
	}

	logger.Debug("screening started",
		zap.Int("lots", len(lots)),
		zap.Int("schemes", len(schemes)),
		zap.Int("workers", workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

dispatch:
	for li := range lots {
		for si := range schemes {
			if gctx.Err() != nil {
				break dispatch
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				sc := evaluateChecked(lots[li], schemes[si], a)
				if sc.Err != nil {
					logger.Warn("pair rejected",
						zap.String("lot", lots[li].ID),
						zap.String("scheme", schemes[si].Name),
						zap.Error(sc.Err))
				}
				results[li].Scenarios[si] = sc
				if s.Progress != nil {
					s.Progress.Increment()
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("screening finished", zap.Int("pairs", len(lots)*len(schemes)))
	return results, nil
}

// Observations flattens lot results for analytics.Summarize.
func Observations(results []LotResult) []analytics.Observation {
	var obs []analytics.Observation
	for _, lr := range results {
		for _, sc := range lr.Scenarios {
			obs = append(obs, analytics.Observation{
				LotID:    lr.Lot.ID,
				Scheme:   sc.Scheme.Name,
				Feasible: sc.Feasibility.Feasible,
				Invalid:  sc.Err != nil,
				Finance:  sc.Finance,
			})
		}
	}
	return obs
}

// Summarize is analytics.Summarize over a screening batch.
func Summarize(results []LotResult) analytics.Summary {
	return analytics.Summarize(Observations(results))
}
