package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the file LoadProject looks for in a project directory.
const ProjectFile = "site.yaml"

// Load reads a screening project from a YAML file, starting from
// DefaultAssumptions.
func Load(path string) (*Project, error) {
	return LoadWith(path, DefaultAssumptions())
}

// LoadWith reads a screening project from a YAML file. Assumption fields
// the file leaves out keep their value from base; fields it sets, zero
// included, replace it. Lots without an id get one derived from the file
// path and lot position, so the same file always yields the same ids.
func LoadWith(path string, base FinanceAssumptions) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	p := Project{Assumptions: base}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}

	for i := range p.Lots {
		if p.Lots[i].ID == "" {
			p.Lots[i].ID = lotID(path, i)
		}
	}

	if p.Catalog != "" && !filepath.IsAbs(p.Catalog) {
		p.Catalog = filepath.Join(filepath.Dir(path), p.Catalog)
	}

	return &p, nil
}

// LoadProject loads a project from a directory containing site.yaml.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// LoadProjectWith is LoadWith for a project directory.
func LoadProjectWith(projectDir string, base FinanceAssumptions) (*Project, error) {
	return LoadWith(filepath.Join(projectDir, ProjectFile), base)
}

func lotID(path string, index int) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name := fmt.Sprintf("file://%s#lots/%d", filepath.ToSlash(abs), index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
