// Package seed loads reference data into a fresh database.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var defaultCatalog []byte

// SkillStore inserts catalog entries that do not exist yet
type SkillStore interface {
	EnsureSkills(ctx context.Context, names []string) (int64, error)
}

// Catalog is the on-disk shape of skills.yaml
type Catalog struct {
	Categories []struct {
		Name   string   `yaml:"name"`
		Skills []string `yaml:"skills"`
	} `yaml:"categories"`
}

// Names flattens the catalog into a normalized list
func (c *Catalog) Names() []string {
	var names []string
	for _, category := range c.Categories {
		names = append(names, category.Skills...)
	}
	return models.NormalizeSkills(names)
}

// ParseCatalog decodes a YAML skill catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse skill catalog: %w", err)
	}
	return &catalog, nil
}

// Skills makes sure every skill of the built-in catalog exists. Existing
// rows are left alone, so it is safe to run on every start.
func Skills(ctx context.Context, store SkillStore, lgr zerolog.Logger) error {
	catalog, err := ParseCatalog(defaultCatalog)
	if err != nil {
		return err
	}

	names := catalog.Names()
	lgr.Info().Int("skills", len(names)).Msg("Checking/Creating default skill catalog...")

	added, err := store.EnsureSkills(ctx, names)
	if err != nil {
		return fmt.Errorf("failed to seed skills: %w", err)
	}

	lgr.Info().Int64("added", added).Msg("Skill catalog ready")
	return nil
}
