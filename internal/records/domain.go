package records

import (
	"errors"
	"time"
)

// ErrInvalidRange indicates a date range whose start falls after its end.
var ErrInvalidRange = errors.New("records: invalid date range")

// Field names a categorical attribute a record can be filtered on.
type Field string

// Supported categorical fields.
const (
	FieldCategory  Field = "category"
	FieldReason    Field = "reason"
	FieldWarehouse Field = "warehouse"
	FieldMovement  Field = "movement"
	FieldPayment   Field = "payment"
	FieldCashier   Field = "cashier"
)

// Unset leaves a categorical filter without constraint.
const Unset = ""

// Fields lists every categorical field in display order.
func Fields() []Field {
	return []Field{FieldCategory, FieldReason, FieldWarehouse, FieldMovement, FieldPayment, FieldCashier}
}

// ParseField maps a raw name to a known Field.
func ParseField(raw string) (Field, bool) {
	for _, f := range Fields() {
		if string(f) == raw {
			return f, true
		}
	}
	return "", false
}

// Record is a single row shown on a report page: a sale, a sold product or an
// inventory adjustment.
type Record struct {
	ID         string            `json:"id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Name       string            `json:"name"`
	SKU        string            `json:"sku,omitempty"`
	Category   string            `json:"category"`
	Quantity   float64           `json:"quantity"`
	Amount     float64           `json:"amount"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Value returns the record's value for a categorical field.
func (r Record) Value(f Field) (string, bool) {
	if f == FieldCategory {
		return r.Category, r.Category != ""
	}
	v, ok := r.Attributes[string(f)]
	return v, ok
}

// DateRange bounds records by calendar day, inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether Start does not fall after End.
func (d DateRange) Valid() bool {
	start, end := d.days()
	return !start.After(end)
}

func (d DateRange) days() (time.Time, time.Time) {
	loc := d.Start.Location()
	return startOfDay(d.Start, loc), startOfDay(d.End.In(loc), loc)
}

func (d DateRange) contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	start, end := d.days()
	day := startOfDay(t.In(start.Location()), start.Location())
	return !day.Before(start) && !day.After(end)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Criteria holds the filter state of a report page.
type Criteria struct {
	DateRange   *DateRange       `json:"date_range,omitempty"`
	Search      string           `json:"search,omitempty"`
	Categorical map[Field]string `json:"categorical,omitempty"`
}

// Validate reports ErrInvalidRange for a reversed date range. Filter itself
// treats such a range as matching nothing.
func (c Criteria) Validate() error {
	if c.DateRange != nil && !c.DateRange.Valid() {
		return ErrInvalidRange
	}
	return nil
}

// With returns a copy of c with one categorical selection replaced.
func (c Criteria) With(f Field, value string) Criteria {
	out := Criteria{DateRange: c.DateRange, Search: c.Search}
	out.Categorical = make(map[Field]string, len(c.Categorical)+1)
	for k, v := range c.Categorical {
		out.Categorical[k] = v
	}
	out.Categorical[f] = value
	return out
}
