package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twd38/alamo-app-sub003/pkg/analytics"
	"github.com/twd38/alamo-app-sub003/pkg/pipeline"
)

// Document is the JSON report layout.
type Document struct {
	Summary analytics.Summary    `json:"summary"`
	Results []pipeline.LotResult `json:"results"`
}

// JSONWriter buffers results and writes a single document on Close.
type JSONWriter struct {
	path    string
	results []pipeline.LotResult
}

// NewJSONWriter checks that path is writable and returns a writer for it.
func NewJSONWriter(path string) (*JSONWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("json: create file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("json: close file %q: %w", path, err)
	}
	return &JSONWriter{path: path}, nil
}

// Write buffers results; scenarios within each lot are ranked.
func (j *JSONWriter) Write(results []pipeline.LotResult) error {
	for _, lr := range results {
		j.results = append(j.results, pipeline.LotResult{
			Lot:       lr.Lot,
			Scenarios: pipeline.Rank(lr.Scenarios),
		})
	}
	return nil
}

// Close writes the document.
func (j *JSONWriter) Close() error {
	doc := Document{
		Summary: pipeline.Summarize(j.results),
		Results: j.results,
	}
	if doc.Results == nil {
		doc.Results = []pipeline.LotResult{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json: encode report: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return fmt.Errorf("json: write %q: %w", j.path, err)
	}
	return nil
}
