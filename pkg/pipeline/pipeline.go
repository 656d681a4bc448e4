// Package pipeline runs lots through feasibility, yield and finance and
// collects one scenario per scheme.
package pipeline

import (
	"encoding/json"
	"sort"

	"github.com/twd38/alamo-app-sub003/pkg/analytics"
	"github.com/twd38/alamo-app-sub003/pkg/feasibility"
	"github.com/twd38/alamo-app-sub003/pkg/finance"
	"github.com/twd38/alamo-app-sub003/pkg/site"
	"github.com/twd38/alamo-app-sub003/pkg/validation"
	"github.com/twd38/alamo-app-sub003/pkg/yield"
)

// Scenario is the outcome of one scheme on one lot. Yield, Finance and
// Metrics are nil when the scheme is infeasible; Err is set only when the
// pair was rejected by input validation.
type Scenario struct {
	Scheme      site.SchemeTemplate `json:"scheme"`
	Feasibility feasibility.Result  `json:"feasibility"`
	Yield       *yield.Result       `json:"yield,omitempty"`
	Finance     *finance.Result     `json:"finance,omitempty"`
	Metrics     *analytics.Metrics  `json:"metrics,omitempty"`
	Err         error               `json:"-"`
}

// Viable reports whether the scenario passed feasibility and was costed.
func (s Scenario) Viable() bool {
	return s.Err == nil && s.Feasibility.Feasible && s.Finance != nil
}

// MarshalJSON adds the validation error message, if any, as "error".
func (s Scenario) MarshalJSON() ([]byte, error) {
	type alias Scenario
	var msg string
	if s.Err != nil {
		msg = s.Err.Error()
	}
	return json.Marshal(struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias(s), msg})
}

// EvaluatePair runs the three stages for a single scheme. Input is assumed
// to be validated.
func EvaluatePair(l site.Lot, s site.SchemeTemplate, a site.FinanceAssumptions) Scenario {
	checker := feasibility.Checker{StoryHeightFt: a.StoryHeight()}
	sc := Scenario{
		Scheme:      s,
		Feasibility: checker.Check(l, s),
	}
	if !sc.Feasibility.Feasible {
		return sc
	}

	y := yield.Compute(l, s)
	f := finance.Compute(l, s, y, a)
	m := analytics.Compute(l, y, f)
	sc.Yield = &y
	sc.Finance = &f
	sc.Metrics = &m
	return sc
}

// Evaluate runs every scheme against the lot and returns one scenario per
// scheme, in input order. Infeasible schemes are kept, never dropped.
func Evaluate(l site.Lot, schemes []site.SchemeTemplate, a site.FinanceAssumptions) []Scenario {
	out := make([]Scenario, len(schemes))
	for i, s := range schemes {
		out[i] = EvaluatePair(l, s, a)
	}
	return out
}

// EvaluateChecked validates each pair before evaluating it. A pair that
// fails validation is returned with Err set; the others are unaffected.
func EvaluateChecked(l site.Lot, schemes []site.SchemeTemplate, a site.FinanceAssumptions) []Scenario {
	out := make([]Scenario, len(schemes))
	for i, s := range schemes {
		out[i] = evaluateChecked(l, s, a)
	}
	return out
}

func evaluateChecked(l site.Lot, s site.SchemeTemplate, a site.FinanceAssumptions) Scenario {
	if err := validation.ValidatePair(l, s, a); err != nil {
		return Scenario{
			Scheme:      s,
			Feasibility: feasibility.Result{Blocking: []string{}},
			Err:         err,
		}
	}
	return EvaluatePair(l, s, a)
}

// Rank returns a copy of scenarios ordered for presentation: costed
// scenarios by descending profit, then everything else in input order.
func Rank(scenarios []Scenario) []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].Viable(), out[j].Viable()
		if vi != vj {
			return vi
		}
		if !vi {
			return false
		}
		return out[i].Finance.Profit > out[j].Finance.Profit
	})
	return out
}
