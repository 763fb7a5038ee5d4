package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type record struct {
	Email string
	Kind  string
	Price float64
	Start time.Time
}

var (
	emailField = func(r record) string { return r.Email }
	kindField  = func(r record) string { return r.Kind }
	priceField = func(r record) float64 { return r.Price }
	startField = func(r record) time.Time { return r.Start }
)

func sampleRecords() []record {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []record{
		{Email: "alice@example.com", Kind: "Room", Price: 120, Start: base},
		{Email: "bob@example.com", Kind: "Car", Price: 0, Start: base.AddDate(0, 0, 2)},
		{Email: "carol@test.org", Kind: "Room", Price: 300, Start: base.AddDate(0, 0, 5)},
		{Email: "dave@example.com", Kind: "Tour", Price: 55, Start: base.AddDate(0, 0, 9)},
	}
}

func TestFilter_TextContains(t *testing.T) {
	got := Filter(sampleRecords(), FilterSet[record]{
		Text: []TextFilter[record]{{Term: "EXAMPLE", Fields: []func(record) string{emailField}}},
	})
	assert.Len(t, got, 3)
}

func TestFilter_BlankTermIsInactive(t *testing.T) {
	records := sampleRecords()

	for _, term := range []string{"", "   ", "\t"} {
		got := Filter(records, FilterSet[record]{
			Text: []TextFilter[record]{{Term: term, Fields: []func(record) string{emailField}}},
		})
		assert.Len(t, got, len(records), "term %q should be inactive", term)
	}
}

func TestFilter_PredicatesCombineWithAND(t *testing.T) {
	got := Filter(sampleRecords(), FilterSet[record]{
		Text:  []TextFilter[record]{{Term: "example", Fields: []func(record) string{emailField}}},
		Enums: []EnumFilter[record]{{Value: "Room", Field: kindField}},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "alice@example.com", got[0].Email)
}

func TestFilter_DateRange(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	got := Filter(sampleRecords(), FilterSet[record]{
		Dates: []DateRangeFilter[record]{{From: &from, To: &to, Field: startField}},
	})

	assert.Len(t, got, 2)
}

func TestFilter_DateRangeWholeDays(t *testing.T) {
	// Bound at 10:00 on the same calendar day must still match a record
	// at 10:00 when comparing by date only.
	on := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)

	got := Filter(sampleRecords(), FilterSet[record]{
		Dates: []DateRangeFilter[record]{{From: &on, To: &on, Field: startField, WholeDays: true}},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "alice@example.com", got[0].Email)
}

// A zero minimum is "no lower bound"; a minimum just above zero excludes
// free items.
func TestFilter_NumericZeroMinIsUnset(t *testing.T) {
	records := sampleRecords()

	got := Filter(records, FilterSet[record]{
		Numerics: []NumericRangeFilter[record]{{Min: 0, Field: priceField}},
	})
	assert.Len(t, got, len(records))

	got = Filter(records, FilterSet[record]{
		Numerics: []NumericRangeFilter[record]{{Min: 0.01, Field: priceField}},
	})
	assert.Len(t, got, 3)
	for _, r := range got {
		assert.Greater(t, r.Price, 0.0)
	}
}

func TestFilter_NumericMax(t *testing.T) {
	got := Filter(sampleRecords(), FilterSet[record]{
		Numerics: []NumericRangeFilter[record]{{Min: 50, Max: 150, Field: priceField}},
	})

	assert.Len(t, got, 2)
}

// filter(filter(C, F), F) == filter(C, F)
func TestFilter_Idempotent(t *testing.T) {
	fs := FilterSet[record]{
		Text:     []TextFilter[record]{{Term: "example", Fields: []func(record) string{emailField}}},
		Numerics: []NumericRangeFilter[record]{{Min: 0.01, Field: priceField}},
	}

	once := Filter(sampleRecords(), fs)
	twice := Filter(once, fs)

	assert.Equal(t, once, twice)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	snapshot := sampleRecords()

	Filter(records, FilterSet[record]{
		Enums: []EnumFilter[record]{{Value: "Room", Field: kindField}},
	})

	assert.Equal(t, snapshot, records)
}
