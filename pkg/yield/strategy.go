package yield

import (
	"math"

	"github.com/twd38/alamo-app-sub003/pkg/site"
)

// Envelope is the buildable rectangle left after setbacks.
type Envelope struct {
	WidthFt float64 `json:"width_ft"`
	DepthFt float64 `json:"depth_ft"`
}

// BuildableEnvelope subtracts the lot's setbacks from its dimensions,
// clamping each side at zero.
func BuildableEnvelope(l site.Lot) Envelope {
	return Envelope{
		WidthFt: math.Max(l.WidthFt-2*l.Setbacks.Side, 0),
		DepthFt: math.Max(l.DepthFt-l.Setbacks.Front-l.Setbacks.Rear, 0),
	}
}

// Strategy decides how many units a scheme places on a lot.
type Strategy interface {
	Units(l site.Lot, s site.SchemeTemplate, env Envelope) int
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(l site.Lot, s site.SchemeTemplate, env Envelope) int

// Units calls f.
func (f StrategyFunc) Units(l site.Lot, s site.SchemeTemplate, env Envelope) int {
	return f(l, s, env)
}

// BaseUnits keeps the scheme's prototype unit count.
var BaseUnits Strategy = StrategyFunc(func(_ site.Lot, s site.SchemeTemplate, _ Envelope) int {
	return s.BaseUnits
})

// RowUnits fits side-by-side units across the envelope width. Each unit
// runs the full envelope depth, so its frontage is footprint / depth.
var RowUnits Strategy = StrategyFunc(func(_ site.Lot, s site.SchemeTemplate, env Envelope) int {
	if env.DepthFt <= 0 || s.FootprintPerUnitSqFt <= 0 {
		return 0
	}
	unitWidth := s.FootprintPerUnitSqFt / env.DepthFt
	units := int(math.Floor(env.WidthFt / unitWidth))
	if units < 0 {
		return 0
	}
	return units
})

// StrategyFor returns the unit strategy for a typology.
func StrategyFor(t site.Typology) Strategy {
	switch t {
	case site.TypologyRow:
		return RowUnits
	default:
		return BaseUnits
	}
}
