package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards() []MenuCard {
	return []MenuCard{
		{ID: "profile", Category: "cuenta"},
		{ID: "store", Category: "tienda"},
		{ID: "users", Category: "seguridad"},
		{ID: "taxes", Category: "tienda"},
		{ID: "beta", Category: "labs"},
		{ID: "printers", Category: "tienda"},
	}
}

func ids(items []MenuCard) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func TestGroupFollowsCategoryOrder(t *testing.T) {
	buckets := Group(cards(), []CategoryID{"tienda", "cuenta", "seguridad"})
	require.Len(t, buckets, 3)
	assert.Equal(t, CategoryID("tienda"), buckets[0].Category)
	assert.Equal(t, []string{"store", "taxes", "printers"}, ids(buckets[0].Items))
	assert.Equal(t, []string{"profile"}, ids(buckets[1].Items))
	assert.Equal(t, []string{"users"}, ids(buckets[2].Items))
}

func TestGroupPercentagesUseFullTotal(t *testing.T) {
	buckets := Group(cards(), []CategoryID{"tienda", "cuenta", "seguridad"})
	// 3/6, 1/6, 1/6; "labs" counts towards the total.
	assert.Equal(t, 50, buckets[0].Percentage)
	assert.Equal(t, 17, buckets[1].Percentage)
	assert.Equal(t, 17, buckets[2].Percentage)
	assert.Equal(t, 3, buckets[0].Count)
}

func TestGroupEmptyCategoryStillEmitted(t *testing.T) {
	buckets := Group(cards(), []CategoryID{"cuenta", "reportes"})
	require.Len(t, buckets, 2)
	assert.Equal(t, CategoryID("reportes"), buckets[1].Category)
	assert.NotNil(t, buckets[1].Items)
	assert.Empty(t, buckets[1].Items)
	assert.Zero(t, buckets[1].Count)
	assert.Zero(t, buckets[1].Percentage)
}

func TestGroupNoCards(t *testing.T) {
	buckets := Group(nil, []CategoryID{"cuenta", "tienda"})
	require.Len(t, buckets, 2)
	for _, b := range buckets {
		assert.Zero(t, b.Percentage)
		assert.Empty(t, b.Items)
	}
	assert.Empty(t, Group(cards(), nil))
}

func TestGroupDuplicateCategoriesCollapse(t *testing.T) {
	buckets := Group(cards(), []CategoryID{"tienda", "cuenta", "tienda"})
	require.Len(t, buckets, 2)
	assert.Equal(t, []string{"store", "taxes", "printers"}, ids(buckets[0].Items))
}

func TestGroupBucketCompleteness(t *testing.T) {
	categories := []CategoryID{"cuenta", "tienda", "seguridad"}
	listed := map[CategoryID]bool{"cuenta": true, "tienda": true, "seguridad": true}
	want := make([]string, 0)
	for _, c := range cards() {
		if listed[c.Category] {
			want = append(want, c.ID)
		}
	}

	seen := make(map[string]int)
	got := make([]string, 0)
	for _, b := range Group(cards(), categories) {
		for _, c := range b.Items {
			seen[c.ID]++
			got = append(got, c.ID)
		}
	}
	assert.ElementsMatch(t, want, got)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestGroupPercentageSumBounded(t *testing.T) {
	items := make([]MenuCard, 0, 7)
	for i, cat := range []CategoryID{"a", "a", "b", "b", "c", "c", "c"} {
		items = append(items, MenuCard{ID: string(rune('p' + i)), Category: cat})
	}
	categories := []CategoryID{"a", "b", "c"}
	sum := 0
	for _, b := range Group(items, categories) {
		sum += b.Percentage
	}
	assert.InDelta(t, 100, sum, float64(len(categories)))
}

func TestGroupByRecordsGeneric(t *testing.T) {
	type row struct {
		name string
		cat  string
	}
	rows := []row{{"Coca Cola", "Bebidas"}, {"Sabritas", "Snacks"}, {"Agua", "Bebidas"}, {"Jabón", "Limpieza"}}
	buckets := GroupBy(rows, func(r row) CategoryID { return CategoryID(r.cat) }, []CategoryID{"Bebidas", "Snacks"})
	require.Len(t, buckets, 2)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, 50, buckets[0].Percentage)
	assert.Equal(t, 25, buckets[1].Percentage)
}
