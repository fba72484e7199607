package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/odyssey-erp/backoffice/internal/rbac"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type fileCatalog struct {
	Sections []fileSection `yaml:"sections" validate:"required,min=1,dive"`
}

type fileSection struct {
	ID         string         `yaml:"id" validate:"required"`
	Title      string         `yaml:"title" validate:"required"`
	Categories []fileCategory `yaml:"categories" validate:"dive"`
	Cards      []fileCard     `yaml:"cards" validate:"dive"`
}

type fileCategory struct {
	ID    string `yaml:"id" validate:"required"`
	Title string `yaml:"title" validate:"required"`
}

type fileCard struct {
	ID          string `yaml:"id" validate:"required"`
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	Category    string `yaml:"category" validate:"required"`
	Route       string `yaml:"route" validate:"required,startswith=/"`
	Source      string `yaml:"source"`
	// Pointer so an absent key stays distinct from an empty list.
	RequiredRoles *[]string `yaml:"required_roles"`
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Load decodes and validates a YAML catalog. Unknown keys are rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var raw fileCatalog
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := validateFile(raw); err != nil {
		return nil, err
	}

	sections := make([]Section, 0, len(raw.Sections))
	for _, fs := range raw.Sections {
		s := Section{ID: fs.ID, Title: fs.Title}
		for _, fc := range fs.Categories {
			s.Categories = append(s.Categories, Category{ID: CategoryID(fc.ID), Title: fc.Title})
		}
		for _, card := range fs.Cards {
			mc := MenuCard{
				ID:          card.ID,
				Title:       card.Title,
				Description: strings.TrimSpace(card.Description),
				Category:    CategoryID(card.Category),
				Section:     fs.ID,
				Route:       card.Route,
				Source:      card.Source,
			}
			if card.RequiredRoles != nil {
				mc.RequiredRoles = rbac.RestrictNames(*card.RequiredRoles)
			}
			s.Cards = append(s.Cards, mc)
		}
		sections = append(sections, s)
	}
	return New(sections), nil
}

var knownSections = map[string]struct{}{
	SectionReports:  {},
	SectionSettings: {},
}

func validateFile(raw fileCatalog) error {
	v := validator.New()
	if err := v.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("catalog: invalid: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("catalog: invalid: %w", err)
	}
	sections := make(map[string]struct{}, len(raw.Sections))
	cards := make(map[string]struct{})
	for _, s := range raw.Sections {
		if _, dup := sections[s.ID]; dup {
			return fmt.Errorf("catalog: duplicate section %q", s.ID)
		}
		if _, ok := knownSections[s.ID]; !ok {
			return fmt.Errorf("catalog: unknown section %q", s.ID)
		}
		sections[s.ID] = struct{}{}
		declared := make(map[string]struct{}, len(s.Categories))
		for _, c := range s.Categories {
			declared[c.ID] = struct{}{}
		}
		for _, card := range s.Cards {
			if _, dup := cards[card.ID]; dup {
				return fmt.Errorf("catalog: duplicate card %q", card.ID)
			}
			cards[card.ID] = struct{}{}
			if _, ok := declared[card.Category]; !ok {
				return fmt.Errorf("catalog: card %q in section %q uses undeclared category %q", card.ID, s.ID, card.Category)
			}
		}
	}
	return nil
}
