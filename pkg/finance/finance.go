// Package finance turns physical yield into a screening pro-forma: revenue,
// development cost, profit, an approximate IRR and residual land value.
package finance

import (
	"math"

	"github.com/twd38/alamo-app-sub003/pkg/site"
	"github.com/twd38/alamo-app-sub003/pkg/yield"
)

// Breakdown itemizes development cost.
type Breakdown struct {
	Hard        float64 `json:"hard"`
	Soft        float64 `json:"soft"`
	Contingency float64 `json:"contingency"`
	Total       float64 `json:"total"`
}

// Result is the pro-forma for one lot × scheme pair.
type Result struct {
	Revenue           float64   `json:"revenue"`
	Costs             Breakdown `json:"costs"`
	LandCost          float64   `json:"land_cost"`
	Profit            float64   `json:"profit"`
	IRR               float64   `json:"irr"`
	ResidualLandValue float64   `json:"residual_land_value"`
}

// Compute builds the pro-forma. For rental schemes the scheme's cap rate
// (or the run's SellCapRate) must be non-zero; validation enforces this
// before a pair reaches here.
func Compute(l site.Lot, s site.SchemeTemplate, y yield.Result, a site.FinanceAssumptions) Result {
	revenue := Revenue(s, y, a)
	costs := DevelopmentCost(s, y, a)

	return Result{
		Revenue:           revenue,
		Costs:             costs,
		LandCost:          l.LandCost,
		Profit:            revenue - costs.Total - l.LandCost,
		IRR:               ApproxIRR(revenue, l.LandCost+costs.Total, a.Years()),
		ResidualLandValue: revenue/(1+a.DiscountRate) - costs.Total,
	}
}

// Revenue is the sale proceeds for for-sale schemes and the capitalized
// annual rent roll for rental schemes.
func Revenue(s site.SchemeTemplate, y yield.Result, a site.FinanceAssumptions) float64 {
	gross := s.SalePriceOrRentPerUnit * float64(y.Units)
	if s.IsRental() {
		return gross / s.CapRate(a)
	}
	return gross
}

// DevelopmentCost computes hard, soft and contingency cost. Contingency is
// a share of hard cost only.
func DevelopmentCost(s site.SchemeTemplate, y yield.Result, a site.FinanceAssumptions) Breakdown {
	hard := s.ConstCostPerGFA * y.GFA
	soft := hard * a.SoftCostPct
	contingency := hard * a.ContingencyPct
	return Breakdown{
		Hard:        hard,
		Soft:        soft,
		Contingency: contingency,
		Total:       hard + soft + contingency,
	}
}

// ApproxIRR is a two-period approximation, not a cash-flow schedule IRR:
// all cost goes out at the start and all revenue comes back after years.
// It returns 0 when nothing is invested.
func ApproxIRR(revenue, invested, years float64) float64 {
	cashOut := -invested
	if cashOut >= 0 {
		return 0
	}
	return math.Pow(revenue/-cashOut, 1/years) - 1
}
