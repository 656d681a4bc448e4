// Package feasibility screens lot/scheme pairs against hard zoning minimums
// before any yield or finance work is done.
package feasibility

import (
	"fmt"
	"strconv"

	"github.com/twd38/alamo-app-sub003/pkg/site"
)

// Blocking reasons, in evaluation order.
const (
	ReasonTooSmall   = "lot too small"
	ReasonTooNarrow  = "lot too narrow"
	ReasonUnitCap    = "unit cap exceeded"
	reasonHeightTmpl = "height > %s ft"
)

// Result reports whether a scheme may be built on a lot and, if not, why.
type Result struct {
	Feasible bool     `json:"feasible"`
	Blocking []string `json:"blocking"`
}

// Checker evaluates the feasibility rules. The zero value uses
// site.DefaultStoryHeightFt.
type Checker struct {
	StoryHeightFt float64
}

// Check runs the rules with the default story height.
func Check(l site.Lot, s site.SchemeTemplate) Result {
	return Checker{}.Check(l, s)
}

// Check evaluates every rule independently, in a fixed order, and collects
// a reason for each violation. Only the scheme's base units and typical
// stories are considered; passing here does not guarantee the final yield.
//
// A parking rule is deliberately absent: parking is reported by the yield
// model, never used to reject a lot.
func (c Checker) Check(l site.Lot, s site.SchemeTemplate) Result {
	blocking := []string{}

	if l.AreaSqFt < s.MinLotAreaSqFt {
		blocking = append(blocking, ReasonTooSmall)
	}
	if l.WidthFt < s.MinLotWidthFt {
		blocking = append(blocking, ReasonTooNarrow)
	}
	if l.UnitLimit != nil && s.BaseUnits > *l.UnitLimit {
		blocking = append(blocking, ReasonUnitCap)
	}
	if l.HeightLimitFt != nil && c.requiredHeight(s) > *l.HeightLimitFt {
		blocking = append(blocking, HeightReason(*l.HeightLimitFt))
	}

	return Result{
		Feasible: len(blocking) == 0,
		Blocking: blocking,
	}
}

// HeightReason formats the height-limit blocking reason, e.g. "height > 35 ft".
func HeightReason(limitFt float64) string {
	return fmt.Sprintf(reasonHeightTmpl, strconv.FormatFloat(limitFt, 'f', -1, 64))
}

func (c Checker) requiredHeight(s site.SchemeTemplate) float64 {
	perStory := c.StoryHeightFt
	if perStory <= 0 {
		perStory = site.DefaultStoryHeightFt
	}
	return float64(s.TypicalStories) * perStory
}
