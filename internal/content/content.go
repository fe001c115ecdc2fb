// Package content holds the static portfolio catalogue rendered by the page
// and served by the content API.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/portfolio/backend/internal/model"
	"gopkg.in/yaml.v3"
)

// AllCategory は全スキルを選択する擬似カテゴリ
const AllCategory = "All"

//go:embed portfolio.yaml
var defaultCatalogue []byte

// Catalogue is the full set of display data for the site.
type Catalogue struct {
	Profile         model.Profile         `yaml:"profile"`
	Projects        []model.Project       `yaml:"projects"`
	SkillCategories []model.SkillCategory `yaml:"skill_categories"`
	Services        []model.Service       `yaml:"services"`
}

// Load reads the catalogue from path, or the embedded default when path is
// empty. Unknown fields are rejected.
func Load(path string) (*Catalogue, error) {
	data := defaultCatalogue
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("content: reading %s: %w", path, err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalogue.
func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("content: empty catalogue")
		}
		return nil, fmt.Errorf("content: parsing: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalogue) validate() error {
	if strings.TrimSpace(c.Profile.Name) == "" {
		return errors.New("content: profile.name is required")
	}
	ids := make(map[int]bool, len(c.Projects))
	for _, p := range c.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("content: project %d has no title", p.ID)
		}
		if ids[p.ID] {
			return fmt.Errorf("content: duplicate project id %d", p.ID)
		}
		ids[p.ID] = true
	}
	names := make(map[string]bool, len(c.SkillCategories))
	for _, sc := range c.SkillCategories {
		key := strings.ToLower(sc.Name)
		if key == "" || strings.EqualFold(sc.Name, AllCategory) {
			return fmt.Errorf("content: invalid skill category name %q", sc.Name)
		}
		if names[key] {
			return fmt.Errorf("content: duplicate skill category %q", sc.Name)
		}
		names[key] = true
	}
	return nil
}

// Categories はスキルのフィルタタブを返す（先頭は "All"）
func (c *Catalogue) Categories() []string {
	out := make([]string, 0, len(c.SkillCategories)+1)
	out = append(out, AllCategory)
	for _, sc := range c.SkillCategories {
		out = append(out, sc.Name)
	}
	return out
}

// SkillsIn returns the skills of a category (case-insensitive). An empty
// category or "All" returns every skill in declaration order; an unknown
// category returns nil.
func (c *Catalogue) SkillsIn(category string) []model.Skill {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategory) {
		var all []model.Skill
		for _, sc := range c.SkillCategories {
			all = append(all, sc.Skills...)
		}
		return all
	}
	for _, sc := range c.SkillCategories {
		if strings.EqualFold(sc.Name, category) {
			return sc.Skills
		}
	}
	return nil
}

// CanonicalCategory maps a user-supplied category to its declared spelling,
// falling back to "All" for unknown values.
func (c *Catalogue) CanonicalCategory(category string) string {
	for _, sc := range c.SkillCategories {
		if strings.EqualFold(sc.Name, strings.TrimSpace(category)) {
			return sc.Name
		}
	}
	return AllCategory
}

// ProjectsUsing returns projects listing the given technology
// (case-insensitive). An empty technology returns every project.
func (c *Catalogue) ProjectsUsing(tech string) []model.Project {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return c.Projects
	}
	var out []model.Project
	for _, p := range c.Projects {
		for _, t := range p.Technologies {
			if strings.EqualFold(t, tech) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
