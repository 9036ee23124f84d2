package game

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/scoutkit/analysis/internal/models"
)

// Schema is the explicit, ordered description of a season's scouting form.
// Both default backfill and display walk this structure rather than
// iterating raw JSON keys, so answer ordering is stable across records.
type Schema struct {
	Pages []Page `yaml:"pages"`
}

type Page struct {
	Name      string     `yaml:"name"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default any    `yaml:"default"`
}

// ParseSchema loads a season form schema from its YAML description.
func ParseSchema(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("parsing form schema: %w", err)
	}
	if len(s.Pages) == 0 {
		return Schema{}, fmt.Errorf("form schema has no pages")
	}
	return s, nil
}

func mustParseSchema(data []byte) Schema {
	s, err := ParseSchema(data)
	if err != nil {
		panic(err)
	}
	return s
}

// ApplyDefaults fills every question the record is missing with the
// schema's default answer, so downstream consumers always see the complete
// season form even when the collection app predates a form change.
func (s Schema) ApplyDefaults(f models.Fields) {
	for _, page := range s.Pages {
		pg, ok := f[page.Name]
		if !ok {
			pg = make(map[string]any, len(page.Questions))
			f[page.Name] = pg
		}
		for _, q := range page.Questions {
			if _, ok := pg[q.Name]; !ok {
				pg[q.Name] = q.Default
			}
		}
	}
}

// Walk visits every (page, question) pair in schema order.
func (s Schema) Walk(visit func(page string, q Question)) {
	for _, page := range s.Pages {
		for _, q := range page.Questions {
			visit(page.Name, q)
		}
	}
}
