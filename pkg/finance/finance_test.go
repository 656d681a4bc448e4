package finance

import (
	"math"
	"testing"

	"github.com/twd38/alamo-app-sub003/pkg/site"
	"github.com/twd38/alamo-app-sub003/pkg/yield"
)

func scenarioLot() site.Lot {
	return site.Lot{
		ID:       "lot-1",
		AreaSqFt: 8000,
		WidthFt:  80,
		DepthFt:  100,
		LandCost: 500000,
	}
}

func apt5Story() site.SchemeTemplate {
	return site.SchemeTemplate{
		Name:                   "Apt5Story",
		Revenue:                site.RevenueModel{Kind: site.RevenueRental},
		TypicalStories:         5,
		BaseUnits:              20,
		FootprintPerUnitSqFt:   1200,
		ConstCostPerGFA:        210,
		SalePriceOrRentPerUnit: 21000,
	}
}

func scenarioAssumptions() site.FinanceAssumptions {
	return site.FinanceAssumptions{
		SoftCostPct:    0.25,
		ContingencyPct: 0.05,
		DiscountRate:   0.08,
		SellCapRate:    0.05,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func TestRentalPipelineScenario(t *testing.T) {
	y := yield.Result{Units: 10, GFA: 60000}
	r := Compute(scenarioLot(), apt5Story(), y, scenarioAssumptions())

	if !approx(r.Revenue, 4_200_000) {
		t.Errorf("revenue = %.2f, want 4,200,000", r.Revenue)
	}
	if !approx(r.Costs.Hard, 12_600_000) {
		t.Errorf("hard cost = %.2f, want 12,600,000", r.Costs.Hard)
	}
	if !approx(r.Costs.Soft, 3_150_000) {
		t.Errorf("soft cost = %.2f, want 3,150,000", r.Costs.Soft)
	}
	if !approx(r.Costs.Contingency, 630_000) {
		t.Errorf("contingency = %.2f, want 630,000", r.Costs.Contingency)
	}
	if !approx(r.Costs.Total, 16_380_000) {
		t.Errorf("total dev cost = %.2f, want 16,380,000", r.Costs.Total)
	}
	if !approx(r.Profit, -12_680_000) {
		t.Errorf("profit = %.2f, want -12,680,000", r.Profit)
	}
	if r.Profit >= 0 {
		t.Error("uneconomic scheme should report a negative profit, not an error")
	}

	wantIRR := math.Sqrt(4_200_000/16_880_000.0) - 1
	if !approx(r.IRR, wantIRR) {
		t.Errorf("irr = %v, want %v", r.IRR, wantIRR)
	}
	wantRLV := 4_200_000/1.08 - 16_380_000
	if !approx(r.ResidualLandValue, wantRLV) {
		t.Errorf("residual land value = %.2f, want %.2f", r.ResidualLandValue, wantRLV)
	}
}

func TestProfitIdentity(t *testing.T) {
	a := scenarioAssumptions()
	for _, units := range []int{0, 1, 7, 20} {
		for _, gfa := range []float64{0, 1234.5, 60000} {
			for _, land := range []float64{0, 1, 500000} {
				l := scenarioLot()
				l.LandCost = land
				r := Compute(l, apt5Story(), yield.Result{Units: units, GFA: gfa}, a)
				if r.Profit != r.Revenue-r.Costs.Total-l.LandCost {
					t.Fatalf("profit identity broken: %+v", r)
				}
			}
		}
	}
}

func TestForSaleRevenue(t *testing.T) {
	s := apt5Story()
	s.Revenue.Kind = site.RevenueSale
	s.SalePriceOrRentPerUnit = 650000

	rev := Revenue(s, yield.Result{Units: 3}, scenarioAssumptions())
	if rev != 1_950_000 {
		t.Errorf("revenue = %v, want 1,950,000", rev)
	}

	// Zero cap rate is irrelevant for for-sale product.
	a := scenarioAssumptions()
	a.SellCapRate = 0
	if rev := Revenue(s, yield.Result{Units: 3}, a); rev != 1_950_000 {
		t.Errorf("revenue with zero cap rate = %v, want 1,950,000", rev)
	}
}

func TestSchemeCapRateOverride(t *testing.T) {
	s := apt5Story()
	s.Revenue.CapRate = site.Limit(0.04)

	rev := Revenue(s, yield.Result{Units: 10}, scenarioAssumptions())
	if !approx(rev, 5_250_000) {
		t.Errorf("revenue = %v, want 210,000 / 0.04 = 5,250,000", rev)
	}
}

func TestContingencyOnHardCostOnly(t *testing.T) {
	a := site.FinanceAssumptions{SoftCostPct: 0.5, ContingencyPct: 0.1}
	c := DevelopmentCost(apt5Story(), yield.Result{GFA: 1000}, a)
	// hard 210,000; soft 105,000; contingency 21,000 (not 31,500)
	if !approx(c.Contingency, 21000) {
		t.Errorf("contingency = %v, want 21000", c.Contingency)
	}
	if !approx(c.Total, 336000) {
		t.Errorf("total = %v, want 336000", c.Total)
	}
}

func TestApproxIRR(t *testing.T) {
	if got := ApproxIRR(1_210_000, 1_000_000, 2); !approx(got, 0.1) {
		t.Errorf("irr = %v, want 0.10", got)
	}
	if got := ApproxIRR(500, 0, 2); got != 0 {
		t.Errorf("irr with no investment = %v, want 0", got)
	}
	if got := ApproxIRR(1_331_000, 1_000_000, 3); !approx(got, 0.1) {
		t.Errorf("3-year irr = %v, want 0.10", got)
	}
}

func TestHoldYearsDefault(t *testing.T) {
	y := yield.Result{Units: 10, GFA: 60000}
	a := scenarioAssumptions()
	two := Compute(scenarioLot(), apt5Story(), y, a)

	a.HoldYears = 2
	explicit := Compute(scenarioLot(), apt5Story(), y, a)
	if two.IRR != explicit.IRR {
		t.Errorf("zero hold years should default to 2: %v vs %v", two.IRR, explicit.IRR)
	}
}

func TestDegenerateNoInvestment(t *testing.T) {
	l := scenarioLot()
	l.LandCost = 0
	r := Compute(l, apt5Story(), yield.Result{Units: 3, GFA: 0}, scenarioAssumptions())
	if r.IRR != 0 {
		t.Errorf("irr = %v, want 0 when nothing is invested", r.IRR)
	}
	if r.Profit != r.Revenue {
		t.Errorf("profit = %v, want revenue %v", r.Profit, r.Revenue)
	}
}
