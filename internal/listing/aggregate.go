package listing

import "time"

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// UrgencyThresholds are presentation policy, adjustable per screen, but the
// bucket used for filtering, sorting-by-priority, and the badge shown must
// all come from the same thresholds.
type UrgencyThresholds struct {
	High   time.Duration
	Medium time.Duration
}

// DefaultUrgencyThresholds classifies starts within 24h as high and within
// 72h as medium.
var DefaultUrgencyThresholds = UrgencyThresholds{
	High:   24 * time.Hour,
	Medium: 72 * time.Hour,
}

// BucketUrgency classifies a record by time remaining until its start date.
// A start already in the past counts as high.
func BucketUrgency(now, start time.Time, th UrgencyThresholds) Urgency {
	remaining := start.Sub(now)
	switch {
	case remaining <= th.High:
		return UrgencyHigh
	case remaining <= th.Medium:
		return UrgencyMedium
	}
	return UrgencyLow
}

// Stats summarizes a filtered (not yet paginated) collection, so displayed
// totals always match what the filters describe regardless of current page.
type Stats struct {
	TotalCount       int             `json:"total_count"`
	Revenue          float64         `json:"revenue"`
	ByStatus         map[Status]int  `json:"by_status,omitempty"`
	ByUrgency        map[Urgency]int `json:"by_urgency,omitempty"`
	AvgLeadTimeHours float64         `json:"avg_lead_time_hours,omitempty"`
}

// AggregateOptions selects which fields contribute to which summaries; nil
// accessors skip that summary.
type AggregateOptions[T any] struct {
	Price      func(T) float64
	Status     func(T) Status
	Start      func(T) time.Time
	Now        time.Time
	Thresholds UrgencyThresholds
}

// Aggregate computes summary stats over records.
func Aggregate[T any](records []T, opts AggregateOptions[T]) Stats {
	stats := Stats{TotalCount: len(records)}

	th := opts.Thresholds
	if th.High == 0 && th.Medium == 0 {
		th = DefaultUrgencyThresholds
	}

	if opts.Status != nil {
		stats.ByStatus = make(map[Status]int)
	}
	if opts.Start != nil {
		stats.ByUrgency = make(map[Urgency]int)
	}

	var leadTotal time.Duration
	for _, r := range records {
		if opts.Price != nil {
			stats.Revenue += opts.Price(r)
		}
		if opts.Status != nil {
			stats.ByStatus[opts.Status(r)]++
		}
		if opts.Start != nil {
			start := opts.Start(r)
			stats.ByUrgency[BucketUrgency(opts.Now, start, th)]++
			leadTotal += start.Sub(opts.Now)
		}
	}

	if opts.Start != nil && len(records) > 0 {
		stats.AvgLeadTimeHours = leadTotal.Hours() / float64(len(records))
	}

	return stats
}
