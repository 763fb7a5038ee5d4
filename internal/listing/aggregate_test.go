package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketUrgency(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  Urgency
	}{
		{"12 hours out is high", now.Add(12 * time.Hour), UrgencyHigh},
		{"48 hours out is medium", now.Add(48 * time.Hour), UrgencyMedium},
		{"10 days out is low", now.Add(240 * time.Hour), UrgencyLow},
		{"exactly 24h is high", now.Add(24 * time.Hour), UrgencyHigh},
		{"exactly 72h is medium", now.Add(72 * time.Hour), UrgencyMedium},
		{"already started counts as high", now.Add(-1 * time.Hour), UrgencyHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketUrgency(now, tt.start, DefaultUrgencyThresholds))
		})
	}
}

// The aggregate count always equals the length of the filtered input.
func TestAggregate_CountMatchesInput(t *testing.T) {
	records := sampleRecords()
	fs := FilterSet[record]{
		Numerics: []NumericRangeFilter[record]{{Min: 0.01, Field: priceField}},
	}

	filtered := Filter(records, fs)
	stats := Aggregate(filtered, AggregateOptions[record]{})

	assert.Equal(t, len(filtered), stats.TotalCount)
}

func TestAggregate_Revenue(t *testing.T) {
	stats := Aggregate(sampleRecords(), AggregateOptions[record]{
		Price: priceField,
	})

	// A zero price (absent upstream) contributes nothing
	assert.Equal(t, 475.0, stats.Revenue)
}

func TestAggregate_ByStatus(t *testing.T) {
	type row struct{ status Status }
	rows := []row{
		{StatusPending}, {StatusPending}, {StatusConfirmed}, {StatusCancelled},
	}

	stats := Aggregate(rows, AggregateOptions[row]{
		Status: func(r row) Status { return r.status },
	})

	assert.Equal(t, 2, stats.ByStatus[StatusPending])
	assert.Equal(t, 1, stats.ByStatus[StatusConfirmed])
	assert.Equal(t, 1, stats.ByStatus[StatusCancelled])
}

func TestAggregate_UrgencyAndLeadTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	type row struct{ start time.Time }
	rows := []row{
		{now.Add(12 * time.Hour)},
		{now.Add(48 * time.Hour)},
		{now.Add(240 * time.Hour)},
	}

	stats := Aggregate(rows, AggregateOptions[row]{
		Start: func(r row) time.Time { return r.start },
		Now:   now,
	})

	assert.Equal(t, 1, stats.ByUrgency[UrgencyHigh])
	assert.Equal(t, 1, stats.ByUrgency[UrgencyMedium])
	assert.Equal(t, 1, stats.ByUrgency[UrgencyLow])
	assert.InDelta(t, 100.0, stats.AvgLeadTimeHours, 0.001)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate([]record{}, AggregateOptions[record]{
		Price: priceField,
		Start: startField,
		Now:   time.Now(),
	})

	assert.Equal(t, 0, stats.TotalCount)
	assert.Equal(t, 0.0, stats.Revenue)
	assert.Equal(t, 0.0, stats.AvgLeadTimeHours)
}
