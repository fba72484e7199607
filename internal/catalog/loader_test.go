package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/rbac"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	settings, err := c.Section(SectionSettings)
	require.NoError(t, err)
	assert.Equal(t, []CategoryID{"cuenta", "tienda", "seguridad"}, settings.CategoryIDs())

	users, err := c.Card("users")
	require.NoError(t, err)
	assert.Equal(t, SectionSettings, users.Section)
	assert.False(t, rbac.CanAccess(users.RequiredRoles, rbac.RoleManager))
	assert.True(t, rbac.CanAccess(users.RequiredRoles, rbac.RoleAdmin))

	profile, err := c.Card("profile")
	require.NoError(t, err)
	assert.Nil(t, profile.RequiredRoles)
	assert.True(t, rbac.CanAccess(profile.RequiredRoles, "anyone"))

	for _, r := range c.Reports() {
		assert.True(t, r.IsReport(), r.ID)
		assert.Equal(t, SectionReports, r.Section)
	}

	_, err = c.Section("billing")
	assert.ErrorIs(t, err, ErrUnknownSection)
	_, err = c.Card("missing")
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestLoadEmptyRequiredRolesDeniesAll(t *testing.T) {
	doc := `
sections:
  - id: settings
    title: Settings
    categories:
      - {id: lab, title: Lab}
    cards:
      - id: locked
        title: Locked
        category: lab
        route: /settings/locked
        required_roles: []
`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	card, err := c.Card("locked")
	require.NoError(t, err)
	require.NotNil(t, card.RequiredRoles)
	assert.False(t, rbac.CanAccess(card.RequiredRoles, rbac.RoleAdmin))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	doc := `
sections:
  - id: settings
    title: Settings
    colour: blue
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLoadValidates(t *testing.T) {
	tests := map[string]string{
		"missing title": `
sections:
  - id: settings
    cards: []
`,
		"bad route": `
sections:
  - id: settings
    title: Settings
    cards:
      - {id: a, title: A, category: x, route: settings/a}
`,
		"duplicate card": `
sections:
  - id: settings
    title: Settings
    cards:
      - {id: a, title: A, category: x, route: /a}
      - {id: a, title: B, category: x, route: /b}
`,
		"undeclared category": `
sections:
  - id: settings
    title: Settings
    categories:
      - {id: cuenta, title: Cuenta}
    cards:
      - {id: a, title: A, category: typo, route: /a}
`,
		"unknown section": `
sections:
  - id: billing
    title: Billing
    categories:
      - {id: cuenta, title: Cuenta}
    cards:
      - {id: a, title: A, category: cuenta, route: /a}
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadReportsUndeclaredCategory(t *testing.T) {
	doc := `
sections:
  - id: settings
    title: Settings
    categories:
      - {id: cuenta, title: Cuenta}
    cards:
      - {id: ok, title: OK, category: cuenta, route: /ok}
      - {id: a, title: A, category: typo, route: /a}
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared category "typo"`)
}

func TestCategoriesBySection(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ids, err := c.Categories(SectionSettings)
	require.NoError(t, err)
	assert.Equal(t, []CategoryID{"cuenta", "tienda", "seguridad"}, ids)

	_, err = c.Categories("billing")
	assert.ErrorIs(t, err, ErrUnknownSection)
}
