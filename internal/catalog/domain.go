package catalog

import (
	"errors"

	"github.com/odyssey-erp/backoffice/internal/rbac"
)

var (
	// ErrUnknownSection indicates a section id the catalog does not define.
	ErrUnknownSection = errors.New("catalog: unknown section")
	// ErrUnknownCard indicates a card id the catalog does not define.
	ErrUnknownCard = errors.New("catalog: unknown card")
)

// Section ids of the default catalog.
const (
	SectionReports  = "reports"
	SectionSettings = "settings"
)

// CategoryID names a card category.
type CategoryID string

// Category is a declared grouping for a section's cards.
type Category struct {
	ID    CategoryID `json:"id"`
	Title string     `json:"title"`
}

// MenuCard describes a navigable report or settings entry. Cards are
// configuration and are never modified after loading.
type MenuCard struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      CategoryID        `json:"category"`
	Section       string            `json:"section"`
	Route         string            `json:"route"`
	Source        string            `json:"source,omitempty"`
	RequiredRoles *rbac.Restriction `json:"-"`
}

// IsReport reports whether the card opens a record table.
func (c MenuCard) IsReport() bool {
	return c.Source != ""
}

// Section groups cards shown on one landing page.
type Section struct {
	ID         string
	Title      string
	Categories []Category
	Cards      []MenuCard
}

// CategoryIDs returns the section's category order.
func (s Section) CategoryIDs() []CategoryID {
	ids := make([]CategoryID, 0, len(s.Categories))
	for _, c := range s.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Catalog is the immutable set of sections available to the dashboard.
type Catalog struct {
	sections []Section
	byID     map[string]int
	cards    map[string]MenuCard
}

// New builds a Catalog from sections, indexing cards by id.
func New(sections []Section) *Catalog {
	c := &Catalog{
		sections: sections,
		byID:     make(map[string]int, len(sections)),
		cards:    make(map[string]MenuCard),
	}
	for i, s := range sections {
		c.byID[s.ID] = i
		for _, card := range s.Cards {
			card.Section = s.ID
			c.cards[card.ID] = card
		}
	}
	return c
}

// Sections returns every section in declaration order.
func (c *Catalog) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Section looks up a section by id.
func (c *Catalog) Section(id string) (Section, error) {
	i, ok := c.byID[id]
	if !ok {
		return Section{}, ErrUnknownSection
	}
	s := c.sections[i]
	cards := make([]MenuCard, len(s.Cards))
	for j, card := range s.Cards {
		card.Section = s.ID
		cards[j] = card
	}
	s.Cards = cards
	return s, nil
}

// Categories returns the category order of a section.
func (c *Catalog) Categories(section string) ([]CategoryID, error) {
	s, err := c.Section(section)
	if err != nil {
		return nil, err
	}
	return s.CategoryIDs(), nil
}

// Card looks up a card by id across sections.
func (c *Catalog) Card(id string) (MenuCard, error) {
	card, ok := c.cards[id]
	if !ok {
		return MenuCard{}, ErrUnknownCard
	}
	return card, nil
}

// Reports lists every card that opens a record table.
func (c *Catalog) Reports() []MenuCard {
	out := make([]MenuCard, 0)
	for _, s := range c.sections {
		for _, card := range s.Cards {
			if card.IsReport() {
				card.Section = s.ID
				out = append(out, card)
			}
		}
	}
	return out
}
