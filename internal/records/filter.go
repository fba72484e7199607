package records

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records matching every active predicate of c, in their
// original order. The input slice and its records are left untouched.
func Filter(recs []Record, c Criteria) []Record {
	if c.DateRange != nil && !c.DateRange.Valid() {
		return []Record{}
	}
	m := newMatcher(c)
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		if m.match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

type matcher struct {
	dateRange   *DateRange
	term        string
	fold        cases.Caser
	categorical map[Field]string
}

func newMatcher(c Criteria) *matcher {
	// Caser is stateful, one per call.
	fold := cases.Fold()
	m := &matcher{dateRange: c.DateRange, fold: fold}
	if term := strings.TrimSpace(c.Search); term != "" {
		m.term = fold.String(term)
	}
	for f, v := range c.Categorical {
		if v == Unset {
			continue
		}
		if m.categorical == nil {
			m.categorical = make(map[Field]string, len(c.Categorical))
		}
		m.categorical[f] = v
	}
	return m
}

func (m *matcher) match(rec Record) bool {
	if m.dateRange != nil && !m.dateRange.contains(rec.OccurredAt) {
		return false
	}
	if m.term != "" && !m.matchText(rec) {
		return false
	}
	for f, want := range m.categorical {
		got, ok := rec.Value(f)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func (m *matcher) matchText(rec Record) bool {
	if strings.Contains(m.fold.String(rec.Name), m.term) {
		return true
	}
	return rec.SKU != "" && strings.Contains(m.fold.String(rec.SKU), m.term)
}

// Options lists the distinct non-empty values of a field in first-seen order.
func Options(recs []Record, f Field) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range recs {
		v, ok := rec.Value(f)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Categories lists the distinct categories of recs in first-seen order.
func Categories(recs []Record) []string {
	return Options(recs, FieldCategory)
}
