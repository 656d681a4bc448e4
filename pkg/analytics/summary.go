package analytics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/twd38/alamo-app-sub003/pkg/finance"
)

// Observation is one (lot, scheme) outcome fed to Summarize.
type Observation struct {
	LotID    string
	Scheme   string
	Feasible bool
	Invalid  bool
	Finance  *finance.Result
}

// Best identifies the most profitable pair in a batch.
type Best struct {
	LotID  string  `json:"lot_id"`
	Scheme string  `json:"scheme"`
	Profit float64 `json:"profit"`
	IRR    float64 `json:"irr"`
}

// Summary aggregates a screening batch.
type Summary struct {
	Lots         int     `json:"lots"`
	Pairs        int     `json:"pairs"`
	Invalid      int     `json:"invalid"`
	Feasible     int     `json:"feasible"`
	Profitable   int     `json:"profitable"`
	MeanProfit   float64 `json:"mean_profit"`
	MedianProfit float64 `json:"median_profit"`
	MaxProfit    float64 `json:"max_profit"`
	MeanIRR      float64 `json:"mean_irr"`
	Best         *Best   `json:"best,omitempty"`
}

// Summarize computes batch statistics over every observation that produced
// a pro-forma. Ties for best keep the earliest observation.
func Summarize(obs []Observation) Summary {
	s := Summary{Pairs: len(obs)}

	lots := make(map[string]struct{})
	var profits, irrs []float64
	for _, o := range obs {
		lots[o.LotID] = struct{}{}
		if o.Invalid {
			s.Invalid++
			continue
		}
		if !o.Feasible {
			continue
		}
		s.Feasible++
		if o.Finance == nil {
			continue
		}
		profits = append(profits, o.Finance.Profit)
		irrs = append(irrs, o.Finance.IRR)
		if o.Finance.Profit > 0 {
			s.Profitable++
		}
		if s.Best == nil || o.Finance.Profit > s.Best.Profit {
			s.Best = &Best{
				LotID:  o.LotID,
				Scheme: o.Scheme,
				Profit: o.Finance.Profit,
				IRR:    o.Finance.IRR,
			}
		}
	}
	s.Lots = len(lots)

	if len(profits) == 0 {
		return s
	}

	s.MeanProfit = stat.Mean(profits, nil)
	s.MaxProfit = floats.Max(profits)
	s.MeanIRR = stat.Mean(irrs, nil)

	sorted := make([]float64, len(profits))
	copy(sorted, profits)
	sort.Float64s(sorted)
	s.MedianProfit = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	return s
}
