package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/twd38/alamo-app-sub003/pkg/analytics"
	"github.com/twd38/alamo-app-sub003/pkg/catalog"
	"github.com/twd38/alamo-app-sub003/pkg/pipeline"
	"github.com/twd38/alamo-app-sub003/pkg/site"
	"github.com/twd38/alamo-app-sub003/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, res := range r.Warnings {
			printResult(w, res)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, res validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		fmt.Fprintf(w, "    -> %s = %v\n", res.Path, res.ActualValue)
	}
	if res.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

func printLotScenarios(w io.Writer, l site.Lot, scenarios []pipeline.Scenario) {
	fmt.Fprintf(w, "Lot %s (%s, %.0f sq ft, %.0f x %.0f ft)\n",
		l.ID, l.ZoningCode, l.AreaSqFt, l.WidthFt, l.DepthFt)
	fmt.Fprintf(w, "%-16s %6s %7s %10s %12s %12s %12s %8s  %s\n",
		"Scheme", "Units", "Stories", "GFA", "Revenue", "Cost", "Profit", "IRR", "Status")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 100))

	for _, sc := range scenarios {
		fmt.Fprintf(w, "%-16s", sc.Scheme.Name)
		if sc.Yield == nil || sc.Finance == nil {
			fmt.Fprintf(w, " %6s %7s %10s %12s %12s %12s %8s  %s\n",
				"-", "-", "-", "-", "-", "-", "-", status(sc))
			continue
		}
		fmt.Fprintf(w, " %6d %7d %10.0f %12s %12s %12s %7.1f%%  %s\n",
			sc.Yield.Units,
			sc.Yield.Stories,
			sc.Yield.GFA,
			formatMoney(sc.Finance.Revenue),
			formatMoney(sc.Finance.Costs.Total+sc.Finance.LandCost),
			formatMoney(sc.Finance.Profit),
			sc.Finance.IRR*100,
			status(sc))
	}
}

func status(sc pipeline.Scenario) string {
	switch {
	case sc.Err != nil:
		return "invalid: " + sc.Err.Error()
	case !sc.Feasibility.Feasible:
		return "blocked: " + strings.Join(sc.Feasibility.Blocking, ", ")
	case sc.Finance != nil && sc.Finance.Profit <= 0:
		return "unprofitable"
	default:
		return "ok"
	}
}

func printSummary(w io.Writer, s analytics.Summary) {
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Lots:            %d\n", s.Lots)
	fmt.Fprintf(w, "  Pairs:           %d (%d feasible, %d profitable, %d invalid)\n",
		s.Pairs, s.Feasible, s.Profitable, s.Invalid)
	fmt.Fprintf(w, "  Mean profit:     $%s\n", formatMoney(s.MeanProfit))
	fmt.Fprintf(w, "  Median profit:   $%s\n", formatMoney(s.MedianProfit))
	fmt.Fprintf(w, "  Max profit:      $%s\n", formatMoney(s.MaxProfit))
	fmt.Fprintf(w, "  Mean IRR:        %.1f%%\n", s.MeanIRR*100)
	if s.Best != nil {
		fmt.Fprintf(w, "  Best:            %s on %s ($%s, %.1f%% IRR)\n",
			s.Best.Scheme, s.Best.LotID, formatMoney(s.Best.Profit), s.Best.IRR*100)
	}
}

func printSchemes(w io.Writer, c *catalog.Catalog) {
	fmt.Fprintf(w, "Catalog %s (%d schemes)\n", c.Version(), c.Len())
	fmt.Fprintf(w, "%-16s %-8s %-7s %9s %7s %7s %6s %10s %12s\n",
		"Scheme", "Type", "Revenue", "MinArea", "MinW", "Stories", "Units", "Cost/GFA", "Price/Rent")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 90))
	for _, s := range c.Schemes() {
		kind := s.Revenue.Kind
		if kind == "" {
			kind = site.RevenueSale
		}
		fmt.Fprintf(w, "%-16s %-8s %-7s %9.0f %7.0f %7d %6d %10.0f %12s\n",
			s.Name, s.EffectiveTypology(), kind,
			s.MinLotAreaSqFt, s.MinLotWidthFt, s.TypicalStories, s.BaseUnits,
			s.ConstCostPerGFA, formatMoney(s.SalePriceOrRentPerUnit))
	}
}

func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return fmt.Sprintf("%v", v)
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s%.2fB", sign, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s%.0fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s%.0f", sign, v)
	}
}
