package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/twd38/alamo-app-sub003/pkg/pipeline"
)

var csvHeader = []string{
	"lot_id", "zoning_code", "scheme", "rank", "feasible", "blocking", "error",
	"units", "stories", "gfa", "stalls", "far_used", "coverage_used",
	"units_per_acre", "parking_ratio",
	"revenue", "total_dev_cost", "land_cost", "profit", "irr", "residual_land_value",
}

// CSVWriter writes one row per (lot, scheme) scenario, ranked within each
// lot. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at path and writes the
// header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends the rows for results.
func (c *CSVWriter) Write(results []pipeline.LotResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, lr := range results {
		for i, sc := range pipeline.Rank(lr.Scenarios) {
			if err := c.writer.Write(row(lr, sc, i+1)); err != nil {
				return fmt.Errorf("csv: write row: %w", err)
			}
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func row(lr pipeline.LotResult, sc pipeline.Scenario, rank int) []string {
	r := make([]string, len(csvHeader))
	r[0] = lr.Lot.ID
	r[1] = lr.Lot.ZoningCode
	r[2] = sc.Scheme.Name
	r[3] = strconv.Itoa(rank)
	r[4] = strconv.FormatBool(sc.Feasibility.Feasible)
	r[5] = strings.Join(sc.Feasibility.Blocking, "; ")
	if sc.Err != nil {
		r[6] = sc.Err.Error()
	}
	if y := sc.Yield; y != nil {
		r[7] = strconv.Itoa(y.Units)
		r[8] = strconv.Itoa(y.Stories)
		r[9] = num(y.GFA)
		r[10] = strconv.Itoa(y.Stalls)
		r[11] = ratio(y.FARUsed)
		r[12] = ratio(y.CoverageUsed)
	}
	if m := sc.Metrics; m != nil {
		r[13] = ratio(m.UnitsPerAcre)
		r[14] = ratio(m.ParkingRatio)
	}
	if f := sc.Finance; f != nil {
		r[15] = money(f.Revenue)
		r[16] = money(f.Costs.Total)
		r[17] = money(f.LandCost)
		r[18] = money(f.Profit)
		r[19] = ratio(f.IRR)
		r[20] = money(f.ResidualLandValue)
	}
	return r
}

func num(v float64) string   { return strconv.FormatFloat(v, 'f', -1, 64) }
func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func ratio(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
