package validation

import (
	"fmt"
	"math"

	"github.com/twd38/alamo-app-sub003/pkg/site"
)

// irregularLotTolerance is how far width × depth may stray from the
// recorded area before the lot is flagged as irregular.
const irregularLotTolerance = 0.25

// ValidateLot performs schema validation on a lot.
func ValidateLot(l site.Lot) *Report {
	r := NewReport()

	if l.ID == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "lot id must not be empty",
			Path:     "lot.id",
			Expected: "non-empty string",
		})
	}

	positive(r, "lot.area_sq_ft", l.AreaSqFt)
	positive(r, "lot.width_ft", l.WidthFt)
	positive(r, "lot.depth_ft", l.DepthFt)

	optionalNonNegative(r, "lot.height_limit_ft", l.HeightLimitFt)
	optionalNonNegative(r, "lot.far_limit", l.FARLimit)
	optionalNonNegative(r, "lot.coverage_limit", l.CoverageLimit)
	if l.CoverageLimit != nil && *l.CoverageLimit > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("coverage_limit %.4f is a fraction and cannot exceed 1", *l.CoverageLimit),
			Path:        "lot.coverage_limit",
			ActualValue: reportable(*l.CoverageLimit),
			Expected:    "0-1",
		})
	}
	if l.UnitLimit != nil && *l.UnitLimit < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "unit_limit must be >= 0",
			Path:        "lot.unit_limit",
			ActualValue: *l.UnitLimit,
			Expected:    ">= 0",
		})
	}

	nonNegative(r, "lot.parking_min_per_unit", l.ParkingMinPerUnit)
	nonNegative(r, "lot.setbacks.front", l.Setbacks.Front)
	nonNegative(r, "lot.setbacks.rear", l.Setbacks.Rear)
	nonNegative(r, "lot.setbacks.side", l.Setbacks.Side)
	nonNegative(r, "lot.land_cost", l.LandCost)

	if r.Valid {
		rect := l.WidthFt * l.DepthFt
		if math.Abs(rect-l.AreaSqFt)/l.AreaSqFt > irregularLotTolerance {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("width × depth (%.0f sq ft) differs from area (%.0f sq ft) by more than %.0f%%", rect, l.AreaSqFt, irregularLotTolerance*100),
				Path:        "lot.area_sq_ft",
				ActualValue: l.AreaSqFt,
				Suggestions: []string{"Irregular lot; the rectangular envelope may overstate buildable width or depth"},
			})
		}
	}

	return r
}

// ValidateScheme performs schema validation on a scheme template.
func ValidateScheme(s site.SchemeTemplate) *Report {
	r := NewReport()

	if s.Name == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "scheme name must not be empty",
			Path:     "scheme.name",
			Expected: "non-empty string",
		})
	}
	path := func(field string) string {
		return fmt.Sprintf("schemes.%s.%s", s.Name, field)
	}

	if s.TypicalStories <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "typical_stories must be > 0",
			Path:        path("typical_stories"),
			ActualValue: s.TypicalStories,
			Expected:    "> 0",
		})
	}
	if s.BaseUnits <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "base_units must be > 0",
			Path:        path("base_units"),
			ActualValue: s.BaseUnits,
			Expected:    "> 0",
		})
	}

	positive(r, path("footprint_per_unit_sq_ft"), s.FootprintPerUnitSqFt)
	nonNegative(r, path("min_lot_area_sq_ft"), s.MinLotAreaSqFt)
	nonNegative(r, path("min_lot_width_ft"), s.MinLotWidthFt)
	nonNegative(r, path("parking_per_unit"), s.ParkingPerUnit)
	nonNegative(r, path("const_cost_per_gfa"), s.ConstCostPerGFA)
	nonNegative(r, path("sale_price_or_rent_per_unit"), s.SalePriceOrRentPerUnit)

	switch s.Typology {
	case "", site.TypologyStacked, site.TypologyRow:
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown typology %q", s.Typology),
			Path:        path("typology"),
			ActualValue: s.Typology,
			Expected:    "stacked | row",
		})
	}

	switch s.Revenue.Kind {
	case "", site.RevenueSale, site.RevenueRental:
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown revenue kind %q", s.Revenue.Kind),
			Path:        path("revenue.kind"),
			ActualValue: s.Revenue.Kind,
			Expected:    "sale | rental",
		})
	}
	if cr := s.Revenue.CapRate; cr != nil && (!finite(*cr) || *cr <= 0) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "revenue.cap_rate must be > 0 when set",
			Path:        path("revenue.cap_rate"),
			ActualValue: reportable(*cr),
			Expected:    "> 0",
		})
	}

	return r
}

// ValidateAssumptions performs schema validation on finance assumptions.
func ValidateAssumptions(a site.FinanceAssumptions) *Report {
	r := NewReport()

	nonNegative(r, "assumptions.soft_cost_pct", a.SoftCostPct)
	nonNegative(r, "assumptions.contingency_pct", a.ContingencyPct)
	nonNegative(r, "assumptions.discount_rate", a.DiscountRate)
	nonNegative(r, "assumptions.sell_cap_rate", a.SellCapRate)
	nonNegative(r, "assumptions.hold_years", a.HoldYears)
	nonNegative(r, "assumptions.story_height_ft", a.StoryHeightFt)

	return r
}

// ValidatePair checks everything a single (lot, scheme) evaluation needs and
// returns an *InvalidInputError if it cannot safely run.
func ValidatePair(l site.Lot, s site.SchemeTemplate, a site.FinanceAssumptions) error {
	return PairReport(l, s, a).Err()
}

// PairReport is ValidatePair with the full report, warnings included.
func PairReport(l site.Lot, s site.SchemeTemplate, a site.FinanceAssumptions) *Report {
	r := ValidateLot(l)
	r.Merge(ValidateScheme(s))
	r.Merge(ValidateAssumptions(a))

	if s.IsRental() && s.CapRate(a) == 0 {
		r.AddError(Result{
			Level:       LevelPair,
			Message:     fmt.Sprintf("rental scheme %s needs a non-zero cap rate to value its rent roll", s.Name),
			Path:        "assumptions.sell_cap_rate",
			ActualValue: a.SellCapRate,
			Expected:    "> 0",
			Suggestions: []string{
				"Set assumptions.sell_cap_rate",
				fmt.Sprintf("Set schemes.%s.revenue.cap_rate", s.Name),
			},
		})
	}

	if l.ParkingMinPerUnit > s.ParkingPerUnit {
		r.AddInfo(Result{
			Level:       LevelPair,
			Message:     fmt.Sprintf("lot %s parking minimum %.2f/unit overrides %s target %.2f/unit", l.ID, l.ParkingMinPerUnit, s.Name, s.ParkingPerUnit),
			Path:        "lot.parking_min_per_unit",
			ActualValue: l.ParkingMinPerUnit,
		})
	}

	return r
}

// ValidateProject validates every lot, scheme and the project assumptions.
func ValidateProject(p *site.Project, schemes []site.SchemeTemplate) *Report {
	r := NewReport()

	if len(p.Lots) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "project must contain at least one lot",
			Path:     "lots",
			Expected: "at least 1 lot",
		})
	}

	seen := make(map[string]bool, len(p.Lots))
	for _, l := range p.Lots {
		if l.ID != "" && seen[l.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate lot id %q", l.ID),
				Path:        "lots",
				ActualValue: l.ID,
			})
		}
		seen[l.ID] = true
		r.Merge(ValidateLot(l))
	}
	for _, s := range schemes {
		r.Merge(ValidateScheme(s))
	}
	r.Merge(ValidateAssumptions(p.Assumptions))

	return r
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// reportable keeps NaN and ±Inf out of ActualValue so reports stay
// JSON-encodable.
func reportable(v float64) any {
	if finite(v) {
		return v
	}
	return fmt.Sprint(v)
}

func positive(r *Report, path string, v float64) {
	if !finite(v) || v <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s must be a finite number > 0", path),
			Path:        path,
			ActualValue: reportable(v),
			Expected:    "> 0",
		})
	}
}

func nonNegative(r *Report, path string, v float64) {
	if !finite(v) || v < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s must be a finite number >= 0", path),
			Path:        path,
			ActualValue: reportable(v),
			Expected:    ">= 0",
		})
	}
}

func optionalNonNegative(r *Report, path string, v *float64) {
	if v != nil {
		nonNegative(r, path, *v)
	}
}
