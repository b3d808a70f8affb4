// Package fallback holds the static catalog served when the document store
// is unavailable. The table is parsed once at startup and never mutated.
package fallback

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

type Table struct {
	services []domain.Service
	projects []domain.ProjectDocument
}

type tableFile struct {
	Services []domain.Service         `yaml:"services"`
	Projects []domain.ProjectDocument `yaml:"projects"`
}

// Load parses the embedded catalog.
func Load() (*Table, error) {
	return Parse(embeddedCatalog)
}

// LoadFile parses a catalog from disk, replacing the embedded one.
func LoadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback catalog: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse fallback catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Services))
	for i, s := range f.Services {
		if strings.TrimSpace(s.Slug) == "" {
			return nil, fmt.Errorf("fallback service %d has no slug", i)
		}
		if seen[s.Slug] {
			return nil, fmt.Errorf("fallback service slug %q is duplicated", s.Slug)
		}
		seen[s.Slug] = true
	}
	for i, p := range f.Projects {
		if p.ID == "" {
			return nil, fmt.Errorf("fallback project %d has no id", i)
		}
	}

	return &Table{services: f.Services, projects: f.Projects}, nil
}

// Services returns a copy of every fallback service.
func (t *Table) Services() []domain.Service {
	out := make([]domain.Service, len(t.services))
	copy(out, t.services)
	return out
}

func (t *Table) ServiceBySlug(slug string) (domain.Service, bool) {
	for _, s := range t.services {
		if s.Slug == slug {
			return s, true
		}
	}
	return domain.Service{}, false
}

// ProjectsForService returns the projects of the service with the given slug.
// An unknown slug yields an empty, non-nil slice.
func (t *Table) ProjectsForService(slug string) []domain.ProjectDocument {
	out := []domain.ProjectDocument{}
	svc, ok := t.ServiceBySlug(slug)
	if !ok {
		return out
	}
	for _, p := range t.projects {
		if p.ServiceID.String() == svc.ID {
			out = append(out, p)
		}
	}
	return out
}

// Project finds a project by id or slug equality.
func (t *Table) Project(idOrSlug string) (domain.ProjectDocument, bool) {
	for _, p := range t.projects {
		if p.ID.String() == idOrSlug || (p.Slug != "" && p.Slug == idOrSlug) {
			return p, true
		}
	}
	return domain.ProjectDocument{}, false
}

// Projects returns a copy of every fallback project.
func (t *Table) Projects() []domain.ProjectDocument {
	out := make([]domain.ProjectDocument, len(t.projects))
	copy(out, t.projects)
	return out
}
