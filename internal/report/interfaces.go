// Package report writes screening results to files for downstream tools.
package report

import (
	"fmt"

	"github.com/twd38/alamo-app-sub003/pkg/pipeline"
)

// Writer is the interface any result sink must satisfy.
type Writer interface {
	Write(results []pipeline.LotResult) error
	Close() error
}

// Open creates a writer for the given format ("csv" or "json").
func Open(format, path string) (Writer, error) {
	switch format {
	case "csv":
		return NewCSVWriter(path)
	case "json":
		return NewJSONWriter(path)
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}
}
