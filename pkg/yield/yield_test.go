package yield

import (
	"math"
	"testing"

	"github.com/twd38/alamo-app-sub003/pkg/site"
)

func scenarioLot() site.Lot {
	return site.Lot{
		ID:                "lot-1",
		AreaSqFt:          8000,
		WidthFt:           80,
		DepthFt:           100,
		HeightLimitFt:     site.Limit(60),
		FARLimit:          site.Limit(2.5),
		CoverageLimit:     site.Limit(0.6),
		ParkingMinPerUnit: 1,
		Setbacks:          site.Setbacks{Front: 10, Rear: 10, Side: 5},
		LandCost:          500000,
	}
}

func apt5Story() site.SchemeTemplate {
	return site.SchemeTemplate{
		Name:                   "Apt5Story",
		Typology:               site.TypologyStacked,
		Revenue:                site.RevenueModel{Kind: site.RevenueRental},
		MinLotAreaSqFt:         8000,
		MinLotWidthFt:          60,
		TypicalStories:         5,
		BaseUnits:              20,
		FootprintPerUnitSqFt:   1200,
		ConstCostPerGFA:        210,
		SalePriceOrRentPerUnit: 21000,
	}
}

func rowhouses() site.SchemeTemplate {
	return site.SchemeTemplate{
		Name:                   "Rowhouses",
		Typology:               site.TypologyRow,
		Revenue:                site.RevenueModel{Kind: site.RevenueSale},
		MinLotAreaSqFt:         6000,
		MinLotWidthFt:          60,
		TypicalStories:         3,
		BaseUnits:              4,
		FootprintPerUnitSqFt:   1800,
		ParkingPerUnit:         1,
		ConstCostPerGFA:        185,
		SalePriceOrRentPerUnit: 650000,
	}
}

func TestBuildableEnvelope(t *testing.T) {
	env := BuildableEnvelope(scenarioLot())
	if env.WidthFt != 70 || env.DepthFt != 80 {
		t.Errorf("envelope = %+v, want 70 x 80", env)
	}

	l := scenarioLot()
	l.Setbacks.Side = 50
	l.Setbacks.Front = 95
	env = BuildableEnvelope(l)
	if env.WidthFt != 0 || env.DepthFt != 0 {
		t.Errorf("oversized setbacks should clamp to zero, got %+v", env)
	}

	l = scenarioLot()
	l.Setbacks.Side = 60
	env = BuildableEnvelope(l)
	if env.WidthFt != 0 || env.DepthFt != 80 {
		t.Errorf("side setbacks should clamp only the width, got %+v", env)
	}
}

func TestApartmentCollapsesUnderFAR(t *testing.T) {
	r := Compute(scenarioLot(), apt5Story())

	if r.Units != 20 {
		t.Errorf("units = %d, want 20", r.Units)
	}
	if r.Footprint != 24000 {
		t.Errorf("footprint = %v, want 24000", r.Footprint)
	}
	// Even one story is FAR 3.0 > 2.5.
	if r.Stories != 0 || r.GFA != 0 {
		t.Errorf("stories = %d, gfa = %v, want 0, 0", r.Stories, r.GFA)
	}
	if r.FARUsed != 0 {
		t.Errorf("far used = %v, want 0", r.FARUsed)
	}
	if r.CoverageUsed != 3 {
		t.Errorf("coverage used = %v, want 3", r.CoverageUsed)
	}
	if r.Stalls != 20 {
		t.Errorf("stalls = %d, want 20 (lot minimum 1/unit)", r.Stalls)
	}
}

func TestRowhousesCollapseUnderCoverage(t *testing.T) {
	r := Compute(scenarioLot(), rowhouses())

	// unit width 1800/80 = 22.5 ft, floor(70/22.5) = 3
	if r.Units != 3 {
		t.Errorf("units = %d, want 3", r.Units)
	}
	if r.Footprint != 5400 {
		t.Errorf("footprint = %v, want 5400", r.Footprint)
	}
	// coverage 0.675 > 0.6 no matter the height
	if r.Stories != 0 || r.GFA != 0 {
		t.Errorf("stories = %d, gfa = %v, want 0, 0", r.Stories, r.GFA)
	}
	if math.Abs(r.CoverageUsed-0.675) > 1e-12 {
		t.Errorf("coverage used = %v, want 0.675", r.CoverageUsed)
	}
	if r.Stalls != 3 {
		t.Errorf("stalls = %d, want 3", r.Stalls)
	}
}

func TestRowhousesZeroDepthGuard(t *testing.T) {
	l := scenarioLot()
	l.DepthFt = l.Setbacks.Front + l.Setbacks.Rear

	r := Compute(l, rowhouses())
	if r.Units != 0 {
		t.Errorf("units = %d, want 0", r.Units)
	}
	if math.IsNaN(r.GFA) || math.IsInf(r.GFA, 0) || math.IsNaN(r.CoverageUsed) {
		t.Errorf("non-finite result: %+v", r)
	}
	if r.Stalls != 0 {
		t.Errorf("stalls = %d, want 0", r.Stalls)
	}
}

func TestStoriesShrinkUntilFARFits(t *testing.T) {
	l := scenarioLot()
	l.CoverageLimit = site.Limit(0.6)
	l.FARLimit = site.Limit(1.0)

	s := rowhouses()
	s.Typology = site.TypologyStacked
	s.BaseUnits = 2
	s.FootprintPerUnitSqFt = 1500 // footprint 3000, coverage 0.375

	r := Compute(l, s)
	// FAR per story = 0.375; 2 stories = 0.75 <= 1.0, 3 stories = 1.125 > 1.0
	if r.Stories != 2 {
		t.Errorf("stories = %d, want 2", r.Stories)
	}
	if r.GFA != 6000 {
		t.Errorf("gfa = %v, want 6000", r.GFA)
	}
	if r.Units != 2 {
		t.Errorf("units = %d, want 2 (units never re-derived after shrink)", r.Units)
	}
}

func TestUnsetLimitsKeepTypicalStories(t *testing.T) {
	l := scenarioLot()
	l.FARLimit = nil
	l.CoverageLimit = nil

	s := apt5Story()
	s.BaseUnits = 4 // footprint 4800, coverage 0.6 <= 1.0

	r := Compute(l, s)
	if r.Stories != 5 {
		t.Errorf("stories = %d, want 5", r.Stories)
	}
	if r.GFA != 24000 {
		t.Errorf("gfa = %v, want 24000", r.GFA)
	}
}

func TestParkingUsesHigherRate(t *testing.T) {
	l := scenarioLot()
	l.ParkingMinPerUnit = 0.5

	s := apt5Story()
	s.ParkingPerUnit = 1.25

	r := Compute(l, s)
	if r.Stalls != 25 {
		t.Errorf("stalls = %d, want ceil(20 x 1.25) = 25", r.Stalls)
	}

	s.ParkingPerUnit = 0.33
	r = Compute(l, s)
	if r.Stalls != 10 {
		t.Errorf("stalls = %d, want ceil(20 x 0.5) = 10", r.Stalls)
	}
}

func TestYieldBounds(t *testing.T) {
	schemes := []site.SchemeTemplate{apt5Story(), rowhouses()}
	for _, far := range []float64{0.1, 0.5, 1, 2, 3.5, 8} {
		for _, cov := range []float64{0.2, 0.5, 0.8, 1} {
			for _, width := range []float64{20, 50, 80, 150} {
				l := scenarioLot()
				l.FARLimit = site.Limit(far)
				l.CoverageLimit = site.Limit(cov)
				l.WidthFt = width
				l.AreaSqFt = width * l.DepthFt

				for _, s := range schemes {
					r := Compute(l, s)
					if r.Stories < 0 || r.Stories > s.TypicalStories {
						t.Fatalf("%s far=%v cov=%v w=%v: stories %d out of range", s.Name, far, cov, width, r.Stories)
					}
					if r.Stories > 0 && (r.FARUsed > far || r.CoverageUsed > cov) {
						t.Fatalf("%s far=%v cov=%v w=%v: limits exceeded with %d stories: %+v", s.Name, far, cov, width, r.Stories, r)
					}
					if r.Stalls < 0 || r.Units < 0 || r.GFA < 0 {
						t.Fatalf("negative yield: %+v", r)
					}
				}
			}
		}
	}
}

func TestComputeWithCustomStrategy(t *testing.T) {
	half := StrategyFunc(func(_ site.Lot, s site.SchemeTemplate, _ Envelope) int {
		return s.BaseUnits / 2
	})
	l := scenarioLot()
	l.FARLimit = nil
	l.CoverageLimit = nil

	r := ComputeWith(l, apt5Story(), half)
	if r.Units != 10 {
		t.Errorf("units = %d, want 10", r.Units)
	}
}

func TestStrategyFor(t *testing.T) {
	l := scenarioLot()
	env := BuildableEnvelope(l)

	if got := StrategyFor(site.TypologyRow).Units(l, rowhouses(), env); got != 3 {
		t.Errorf("row strategy units = %d, want 3", got)
	}
	if got := StrategyFor(site.TypologyStacked).Units(l, rowhouses(), env); got != 4 {
		t.Errorf("stacked strategy units = %d, want base 4", got)
	}
	if got := StrategyFor("").Units(l, apt5Story(), env); got != 20 {
		t.Errorf("default strategy units = %d, want base 20", got)
	}
}
