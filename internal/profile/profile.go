// Package profile loads the biography and project records that the
// portfolio page renders and the assistant quotes from.
package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"portfolio-backend/internal/models"
)

// Content is the immutable content set loaded at startup.
type Content struct {
	Profile  *models.Profile
	Projects []models.Project
}

// Load reads a profile file. YAML and JSON are supported, picked by extension.
func Load(path string) (*models.Profile, error) {
	var p models.Profile
	if err := cleanenv.ReadConfig(path, &p); err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if err := Validate(&p); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadProjects reads a project list file. An empty path yields no projects.
func LoadProjects(path string) ([]models.Project, error) {
	if path == "" {
		return nil, nil
	}
	var list models.ProjectList
	if err := cleanenv.ReadConfig(path, &list); err != nil {
		return nil, fmt.Errorf("failed to read projects %s: %w", path, err)
	}
	seen := make(map[string]bool, len(list.Projects))
	for i, p := range list.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("project %d has no title", i)
		}
		if p.ID != "" {
			if seen[p.ID] {
				return nil, fmt.Errorf("duplicate project id %q", p.ID)
			}
			seen[p.ID] = true
		}
	}
	return list.Projects, nil
}

// LoadContent loads both files.
func LoadContent(profilePath, projectsPath string) (*Content, error) {
	p, err := Load(profilePath)
	if err != nil {
		return nil, err
	}
	projects, err := LoadProjects(projectsPath)
	if err != nil {
		return nil, err
	}
	return &Content{Profile: p, Projects: projects}, nil
}

func Validate(p *models.Profile) error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(p.Role) == "" {
		errs = append(errs, errors.New("role is required"))
	}
	for i, g := range p.Skills {
		if g.Category == "" {
			errs = append(errs, fmt.Errorf("skills[%d] has no category", i))
		}
	}
	return errors.Join(errs...)
}

// FilterByCategory returns projects whose category matches case-insensitively.
// An empty category returns every project.
func FilterByCategory(projects []models.Project, category string) []models.Project {
	if category == "" {
		return projects
	}
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the distinct project categories in sorted order.
func Categories(projects []models.Project) []string {
	set := make(map[string]struct{})
	for _, p := range projects {
		if p.Category != "" {
			set[p.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
