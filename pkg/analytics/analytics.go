// Package analytics derives the reporting ratios a downstream consumer needs
// from a scenario's yield and pro-forma, so no caller has to recompute them.
package analytics

import (
	"github.com/twd38/alamo-app-sub003/pkg/finance"
	"github.com/twd38/alamo-app-sub003/pkg/site"
	"github.com/twd38/alamo-app-sub003/pkg/yield"
)

// SqFtPerAcre converts lot area to acres for density figures.
const SqFtPerAcre = 43560.0

// Metrics holds the derived figures for one evaluated scenario.
type Metrics struct {
	FAR             float64 `json:"far"`
	Coverage        float64 `json:"coverage"`
	LotAcres        float64 `json:"lot_acres"`
	UnitsPerAcre    float64 `json:"units_per_acre"`
	ParkingRatio    float64 `json:"parking_ratio"`
	AvgUnitSizeSqFt float64 `json:"avg_unit_size_sq_ft"`
	Revenue         float64 `json:"revenue"`
	TotalDevCost    float64 `json:"total_dev_cost"`
	TotalCost       float64 `json:"total_cost"`
	CostPerUnit     float64 `json:"cost_per_unit"`
	LandCostPerUnit float64 `json:"land_cost_per_unit"`
	ProfitMargin    float64 `json:"profit_margin"`
	ReturnOnCost    float64 `json:"return_on_cost"`
}

// Compute derives the metrics for a feasible scenario. Ratios whose
// denominator is zero are reported as 0.
func Compute(l site.Lot, y yield.Result, f finance.Result) Metrics {
	units := float64(y.Units)
	acres := l.AreaSqFt / SqFtPerAcre
	totalCost := f.Costs.Total + l.LandCost

	return Metrics{
		FAR:             y.FARUsed,
		Coverage:        y.CoverageUsed,
		LotAcres:        acres,
		UnitsPerAcre:    ratio(units, acres),
		ParkingRatio:    ratio(float64(y.Stalls), units),
		AvgUnitSizeSqFt: ratio(y.GFA, units),
		Revenue:         f.Revenue,
		TotalDevCost:    f.Costs.Total,
		TotalCost:       totalCost,
		CostPerUnit:     ratio(totalCost, units),
		LandCostPerUnit: ratio(l.LandCost, units),
		ProfitMargin:    ratio(f.Profit, f.Revenue),
		ReturnOnCost:    ratio(f.Profit, totalCost),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
