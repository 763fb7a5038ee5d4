package listing

import (
	"strings"
	"time"
)

// TextFilter matches when the term is a case-insensitive substring of any
// of the given fields. A blank or whitespace-only term is inactive.
type TextFilter[T any] struct {
	Term   string
	Fields []func(T) string
}

// EnumFilter matches on exact (case-insensitive) equality. An empty value
// is inactive.
type EnumFilter[T any] struct {
	Value string
	Field func(T) string
}

// DateRangeFilter keeps records whose date is >= From and <= To, each bound
// optional. With WholeDays set the comparison is by calendar date rather
// than full timestamp.
type DateRangeFilter[T any] struct {
	From      *time.Time
	To        *time.Time
	Field     func(T) time.Time
	WholeDays bool
}

// NumericRangeFilter keeps records with Min <= value <= Max. A bound of 0
// is treated as unset.
type NumericRangeFilter[T any] struct {
	Min   float64
	Max   float64
	Field func(T) float64
}

// FilterSet composes all active predicates with logical AND.
type FilterSet[T any] struct {
	Text     []TextFilter[T]
	Enums    []EnumFilter[T]
	Dates    []DateRangeFilter[T]
	Numerics []NumericRangeFilter[T]
}

// filterContext holds pre-lowered terms and pre-truncated bounds so we
// don't redo the work inside the record loop.
type filterContext[T any] struct {
	text     []textPredicate[T]
	enums    []EnumFilter[T]
	dates    []datePredicate[T]
	numerics []NumericRangeFilter[T]
}

type textPredicate[T any] struct {
	lowered string
	fields  []func(T) string
}

type datePredicate[T any] struct {
	from      *time.Time
	to        *time.Time
	field     func(T) time.Time
	wholeDays bool
}

func newFilterContext[T any](fs FilterSet[T]) *filterContext[T] {
	fc := &filterContext[T]{}

	for _, tf := range fs.Text {
		term := strings.TrimSpace(tf.Term)
		if term == "" {
			continue
		}
		fc.text = append(fc.text, textPredicate[T]{
			lowered: strings.ToLower(term),
			fields:  tf.Fields,
		})
	}

	for _, ef := range fs.Enums {
		if ef.Value == "" {
			continue
		}
		fc.enums = append(fc.enums, ef)
	}

	for _, df := range fs.Dates {
		if df.From == nil && df.To == nil {
			continue
		}
		p := datePredicate[T]{field: df.Field, wholeDays: df.WholeDays}
		if df.From != nil {
			from := *df.From
			if df.WholeDays {
				from = dateOnly(from)
			}
			p.from = &from
		}
		if df.To != nil {
			to := *df.To
			if df.WholeDays {
				to = dateOnly(to)
			}
			p.to = &to
		}
		fc.dates = append(fc.dates, p)
	}

	for _, nf := range fs.Numerics {
		if nf.Min <= 0 && nf.Max <= 0 {
			continue
		}
		fc.numerics = append(fc.numerics, nf)
	}

	return fc
}

// Filter returns the subset of records matching every active predicate.
// The input slice is never mutated.
func Filter[T any](records []T, fs FilterSet[T]) []T {
	fc := newFilterContext(fs)

	// Pre-allocate assuming worst case (nothing filtered) to avoid resizing
	filtered := make([]T, 0, len(records))

	for _, r := range records {
		if fc.matches(r) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

// matches returns true only if ALL active filters pass
func (fc *filterContext[T]) matches(r T) bool {
	for _, nf := range fc.numerics {
		v := nf.Field(r)
		if nf.Min > 0 && v < nf.Min {
			return false
		}
		if nf.Max > 0 && v > nf.Max {
			return false
		}
	}

	for _, ef := range fc.enums {
		if !strings.EqualFold(ef.Field(r), ef.Value) {
			return false
		}
	}

	for _, dp := range fc.dates {
		v := dp.field(r)
		if dp.wholeDays {
			v = dateOnly(v)
		}
		if dp.from != nil && v.Before(*dp.from) {
			return false
		}
		if dp.to != nil && v.After(*dp.to) {
			return false
		}
	}

	// Substring scans are the heaviest, do them last
	for _, tp := range fc.text {
		matched := false
		for _, field := range tp.fields {
			if strings.Contains(strings.ToLower(field(r)), tp.lowered) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
