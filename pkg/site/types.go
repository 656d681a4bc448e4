package site

// Project is the top-level screening input: a set of lots, the schemes to
// test them against, and the finance assumptions for the run.
type Project struct {
	SpecVersion string             `yaml:"spec_version" json:"spec_version"`
	Assumptions FinanceAssumptions `yaml:"assumptions" json:"assumptions"`
	Catalog     string             `yaml:"catalog,omitempty" json:"catalog,omitempty"`
	Schemes     []SchemeTemplate   `yaml:"schemes,omitempty" json:"schemes,omitempty"`
	Lots        []Lot              `yaml:"lots" json:"lots"`
}

// Lot is a parcel under evaluation. Zoning limits arrive already resolved to
// numbers; a nil limit means the jurisdiction sets none.
type Lot struct {
	ID                string   `yaml:"id" json:"id"`
	ZoningCode        string   `yaml:"zoning_code" json:"zoning_code"`
	AreaSqFt          float64  `yaml:"area_sq_ft" json:"area_sq_ft"`
	WidthFt           float64  `yaml:"width_ft" json:"width_ft"`
	DepthFt           float64  `yaml:"depth_ft" json:"depth_ft"`
	HeightLimitFt     *float64 `yaml:"height_limit_ft,omitempty" json:"height_limit_ft,omitempty"`
	FARLimit          *float64 `yaml:"far_limit,omitempty" json:"far_limit,omitempty"`
	CoverageLimit     *float64 `yaml:"coverage_limit,omitempty" json:"coverage_limit,omitempty"`
	UnitLimit         *int     `yaml:"unit_limit,omitempty" json:"unit_limit,omitempty"`
	ParkingMinPerUnit float64  `yaml:"parking_min_per_unit" json:"parking_min_per_unit"`
	Setbacks          Setbacks `yaml:"setbacks" json:"setbacks"`
	LandCost          float64  `yaml:"land_cost" json:"land_cost"`
}

// Setbacks are required distances in feet from each lot line.
type Setbacks struct {
	Front float64 `yaml:"front" json:"front"`
	Rear  float64 `yaml:"rear" json:"rear"`
	Side  float64 `yaml:"side" json:"side"`
}

// Typology selects how a scheme derives its unit count.
type Typology string

const (
	// TypologyStacked schemes keep their base unit count.
	TypologyStacked Typology = "stacked"
	// TypologyRow schemes fit as many unit widths as the envelope allows.
	TypologyRow Typology = "row"
)

// RevenueKind distinguishes for-sale product from rental product.
type RevenueKind string

const (
	RevenueSale   RevenueKind = "sale"
	RevenueRental RevenueKind = "rental"
)

// RevenueModel describes how a scheme earns money. For rental schemes the
// per-unit price is an annual rent, capitalized at CapRate when set and at
// the run's SellCapRate otherwise.
type RevenueModel struct {
	Kind    RevenueKind `yaml:"kind" json:"kind"`
	CapRate *float64    `yaml:"cap_rate,omitempty" json:"cap_rate,omitempty"`
}

// SchemeTemplate is a building prototype with fixed physical and cost
// assumptions. Templates carry no lot-specific state.
type SchemeTemplate struct {
	Name                   string       `yaml:"name" json:"name"`
	Typology               Typology     `yaml:"typology,omitempty" json:"typology,omitempty"`
	Revenue                RevenueModel `yaml:"revenue" json:"revenue"`
	MinLotAreaSqFt         float64      `yaml:"min_lot_area_sq_ft" json:"min_lot_area_sq_ft"`
	MinLotWidthFt          float64      `yaml:"min_lot_width_ft" json:"min_lot_width_ft"`
	TypicalStories         int          `yaml:"typical_stories" json:"typical_stories"`
	BaseUnits              int          `yaml:"base_units" json:"base_units"`
	FootprintPerUnitSqFt   float64      `yaml:"footprint_per_unit_sq_ft" json:"footprint_per_unit_sq_ft"`
	ParkingPerUnit         float64      `yaml:"parking_per_unit" json:"parking_per_unit"`
	ConstCostPerGFA        float64      `yaml:"const_cost_per_gfa" json:"const_cost_per_gfa"`
	SalePriceOrRentPerUnit float64      `yaml:"sale_price_or_rent_per_unit" json:"sale_price_or_rent_per_unit"`
}

// EffectiveTypology returns the scheme's typology, defaulting to stacked.
func (s SchemeTemplate) EffectiveTypology() Typology {
	if s.Typology == "" {
		return TypologyStacked
	}
	return s.Typology
}

// IsRental reports whether the scheme's revenue is a capitalized rent roll.
func (s SchemeTemplate) IsRental() bool {
	return s.Revenue.Kind == RevenueRental
}

// CapRate returns the cap rate used to value a rental scheme: the scheme's
// own override when present, the run-wide sell cap rate otherwise.
func (s SchemeTemplate) CapRate(a FinanceAssumptions) float64 {
	if s.Revenue.CapRate != nil {
		return *s.Revenue.CapRate
	}
	return a.SellCapRate
}

// FinanceAssumptions are run-wide tunables supplied fresh by the caller.
type FinanceAssumptions struct {
	SoftCostPct    float64 `yaml:"soft_cost_pct" json:"soft_cost_pct" mapstructure:"soft_cost_pct"`
	ContingencyPct float64 `yaml:"contingency_pct" json:"contingency_pct" mapstructure:"contingency_pct"`
	DiscountRate   float64 `yaml:"discount_rate" json:"discount_rate" mapstructure:"discount_rate"`
	SellCapRate    float64 `yaml:"sell_cap_rate" json:"sell_cap_rate" mapstructure:"sell_cap_rate"`

	// HoldYears is the horizon of the two-period IRR approximation.
	HoldYears float64 `yaml:"hold_years,omitempty" json:"hold_years,omitempty" mapstructure:"hold_years"`
	// StoryHeightFt converts a story count into a building height.
	StoryHeightFt float64 `yaml:"story_height_ft,omitempty" json:"story_height_ft,omitempty" mapstructure:"story_height_ft"`
}

const (
	DefaultHoldYears     = 2.0
	DefaultStoryHeightFt = 10.0
)

// DefaultAssumptions returns the screening defaults used when a caller
// supplies none.
func DefaultAssumptions() FinanceAssumptions {
	return FinanceAssumptions{
		SoftCostPct:    0.25,
		ContingencyPct: 0.05,
		DiscountRate:   0.08,
		SellCapRate:    0.05,
		HoldYears:      DefaultHoldYears,
		StoryHeightFt:  DefaultStoryHeightFt,
	}
}

// Years returns the IRR horizon, falling back to DefaultHoldYears.
func (a FinanceAssumptions) Years() float64 {
	if a.HoldYears <= 0 {
		return DefaultHoldYears
	}
	return a.HoldYears
}

// StoryHeight returns feet per story, falling back to DefaultStoryHeightFt.
func (a FinanceAssumptions) StoryHeight() float64 {
	if a.StoryHeightFt <= 0 {
		return DefaultStoryHeightFt
	}
	return a.StoryHeightFt
}

// Limit returns a pointer to v, for populating optional zoning limits.
func Limit(v float64) *float64 {
	return &v
}

// Cap returns a pointer to n, for populating an optional unit cap.
func Cap(n int) *int {
	return &n
}
