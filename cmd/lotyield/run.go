package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/twd38/alamo-app-sub003/internal/report"
	"github.com/twd38/alamo-app-sub003/internal/server"
	"github.com/twd38/alamo-app-sub003/pkg/catalog"
	"github.com/twd38/alamo-app-sub003/pkg/pipeline"
	"github.com/twd38/alamo-app-sub003/pkg/site"
	"github.com/twd38/alamo-app-sub003/pkg/validation"
)

type screenOptions struct {
	out        string
	format     string
	noProgress bool
}

// project is a loaded project with its catalog resolved. Its Assumptions
// start from the configured ones and carry the file's values on top.
type project struct {
	*site.Project
	catalog *catalog.Catalog
}

// baseCatalog is the catalog used when a project does not name its own.
func (a *app) baseCatalog() (*catalog.Catalog, error) {
	if a.cfg.Catalog == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(a.cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return c, nil
}

// loadAndValidate loads the project and runs schema validation.
func (a *app) loadAndValidate(projectPath string) (*project, *validation.Report, error) {
	p, err := site.LoadProjectWith(projectPath, a.cfg.Assumptions)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	base, err := a.baseCatalog()
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.ForProject(p, base)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project catalog: %w", err)
	}

	a.logger.Debug("project loaded",
		zap.String("path", projectPath),
		zap.Int("lots", len(p.Lots)),
		zap.String("catalog", cat.Version()))

	return &project{Project: p, catalog: cat}, validation.ValidateProject(p, cat.Schemes()), nil
}

// loadValid is loadAndValidate for commands that cannot run on invalid input.
func (a *app) loadValid(w io.Writer, projectPath string) (*project, error) {
	p, r, err := a.loadAndValidate(projectPath)
	if err != nil {
		return nil, err
	}
	if !r.Valid {
		printValidationReport(w, r)
		return nil, errors.New("project has validation errors; fix before evaluating")
	}
	return p, nil
}

func (a *app) runValidate(w io.Writer, projectPath string) error {
	_, r, err := a.loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(w, r)

	if !r.Valid {
		return errors.New("project is invalid")
	}
	return nil
}

func (a *app) runEvaluate(w io.Writer, projectPath string, names []string) error {
	p, err := a.loadValid(w, projectPath)
	if err != nil {
		return err
	}
	schemes, err := p.catalog.Select(names...)
	if err != nil {
		return err
	}

	results := make([]pipeline.LotResult, 0, len(p.Lots))
	for _, l := range p.Lots {
		scenarios := pipeline.EvaluateChecked(l, schemes, p.Assumptions)
		results = append(results, pipeline.LotResult{Lot: l, Scenarios: scenarios})
		printLotScenarios(w, l, pipeline.Rank(scenarios))
		fmt.Fprintln(w)
	}

	printSummary(w, pipeline.Summarize(results))
	return nil
}

func (a *app) runScreen(ctx context.Context, w io.Writer, projectPath string, opts screenOptions) error {
	p, err := a.loadValid(w, projectPath)
	if err != nil {
		return err
	}

	out, err := report.Open(opts.format, opts.out)
	if err != nil {
		return err
	}

	schemes := p.catalog.Schemes()
	screener := &pipeline.Screener{Workers: a.cfg.Workers, Logger: a.logger}

	var bar *pb.ProgressBar
	if !opts.noProgress {
		bar = pb.New(len(p.Lots) * len(schemes))
		bar.Output = os.Stderr
		bar.ShowTimeLeft = false
		bar.Start()
		screener.Progress = bar
	}

	results, err := screener.Screen(ctx, p.Lots, schemes, p.Assumptions)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("screening: %w", err)
	}

	if err := out.Write(results); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	a.logger.Info("screen written",
		zap.String("path", opts.out),
		zap.String("format", opts.format),
		zap.Int("lots", len(p.Lots)),
		zap.Int("schemes", len(schemes)))

	printSummary(w, pipeline.Summarize(results))
	return nil
}

func (a *app) runSchemes(w io.Writer) error {
	c, err := a.baseCatalog()
	if err != nil {
		return err
	}
	printSchemes(w, c)
	return nil
}

func (a *app) runServe(ctx context.Context, projectPath string) error {
	opts := server.Options{
		Assumptions: a.cfg.Assumptions,
		Workers:     a.cfg.Workers,
		Port:        a.cfg.Port,
		Logger:      a.logger,
	}

	if projectPath != "" {
		p, err := a.loadValid(os.Stdout, projectPath)
		if err != nil {
			return err
		}
		opts.Project = p.Project
		opts.Catalog = p.catalog
	} else {
		c, err := a.baseCatalog()
		if err != nil {
			return err
		}
		opts.Catalog = c
	}

	return server.New(opts).Start(ctx)
}
