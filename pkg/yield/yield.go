// Package yield computes how much of a scheme fits on a lot once setbacks,
// floor-area ratio and coverage limits are applied.
package yield

import (
	"math"

	"github.com/twd38/alamo-app-sub003/pkg/site"
)

// Result is the physical yield of a scheme on a lot.
type Result struct {
	Units        int      `json:"units"`
	Stories      int      `json:"stories"`
	GFA          float64  `json:"gfa"`
	Stalls       int      `json:"stalls"`
	Footprint    float64  `json:"footprint"`
	CoverageUsed float64  `json:"coverage_used"`
	FARUsed      float64  `json:"far_used"`
	Envelope     Envelope `json:"envelope"`
}

// Compute runs the yield model with the scheme's typology strategy.
func Compute(l site.Lot, s site.SchemeTemplate) Result {
	return ComputeWith(l, s, StrategyFor(s.EffectiveTypology()))
}

// ComputeWith runs the yield model with an explicit unit strategy.
//
// The unit count is fixed by the strategy; the story loop only trims height
// until FAR and coverage fit, and never re-derives units. Stories strictly
// decrease, so the loop runs at most TypicalStories times.
func ComputeWith(l site.Lot, s site.SchemeTemplate, strategy Strategy) Result {
	env := BuildableEnvelope(l)

	units := strategy.Units(l, s, env)
	if units < 0 {
		units = 0
	}
	footprint := float64(units) * s.FootprintPerUnitSqFt

	farLimit := math.Inf(1)
	if l.FARLimit != nil {
		farLimit = *l.FARLimit
	}
	coverageLimit := 1.0
	if l.CoverageLimit != nil {
		coverageLimit = *l.CoverageLimit
	}

	stories := s.TypicalStories
	if stories < 0 {
		stories = 0
	}
	gfa := footprint * float64(stories)
	for stories > 0 && (gfa/l.AreaSqFt > farLimit || footprint/l.AreaSqFt > coverageLimit) {
		stories--
		gfa = footprint * float64(stories)
	}

	parkingRate := math.Max(l.ParkingMinPerUnit, s.ParkingPerUnit)
	stalls := int(math.Ceil(float64(units) * parkingRate))

	return Result{
		Units:        units,
		Stories:      stories,
		GFA:          gfa,
		Stalls:       stalls,
		Footprint:    footprint,
		CoverageUsed: footprint / l.AreaSqFt,
		FARUsed:      gfa / l.AreaSqFt,
		Envelope:     env,
	}
}
