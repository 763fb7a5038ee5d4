package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tripadmin/internal/listing"
	"tripadmin/pkg/cache"
	"tripadmin/pkg/idgen"
	"tripadmin/pkg/logger"
)

// UpstreamClient is the slice of the booking API this service consumes.
type UpstreamClient interface {
	ListBookings(ctx context.Context, bearer string) ([]Booking, error)
	ConfirmBooking(ctx context.Context, bearer string, id int64) error
	CancelBooking(ctx context.Context, bearer string, id int64) error
	DeleteBooking(ctx context.Context, bearer string, id int64) error
}

// State tracks the load lifecycle of one scope's collection.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateErrored State = "errored"
)

type Service struct {
	client UpstreamClient
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Client
	idgen  idgen.Generator
	clock  func() time.Time

	mu          sync.Mutex
	states      map[string]State
	lastApplied map[string]int64
}

func NewService(client UpstreamClient, cache cache.Cache, ttlMinutes int, gen idgen.Generator, logger logger.Client) *Service {
	return &Service{
		client:      client,
		cache:       cache,
		ttl:         time.Duration(ttlMinutes) * time.Minute,
		logger:      logger,
		idgen:       gen,
		clock:       time.Now,
		states:      make(map[string]State),
		lastApplied: make(map[string]int64),
	}
}

// ListParams carries the screen's filter, sort, and page state. Zero values
// mean "unset" throughout.
type ListParams struct {
	Search      string     `form:"search"`
	Status      string     `form:"status"`
	BookingType string     `form:"booking_type"`
	Urgency     string     `form:"urgency"`
	DateFrom    *time.Time `form:"date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo      *time.Time `form:"date_to" time_format:"2006-01-02T15:04:05Z07:00"`
	PriceMin    float64    `form:"price_min"`
	PriceMax    float64    `form:"price_max"`
	SortBy      string     `form:"sort_by"`
	Order       string     `form:"order"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
}

// Item is one booking plus its derived display fields.
type Item struct {
	Booking         Booking         `json:"booking"`
	CanonicalStatus listing.Status  `json:"canonical_status"`
	Urgency         listing.Urgency `json:"urgency"`
}

type ListResult struct {
	Items       []Item        `json:"items"`
	CurrentPage int           `json:"current_page"`
	PageSize    int           `json:"page_size"`
	TotalItems  int           `json:"total_items"`
	TotalPages  int           `json:"total_pages"`
	PageWindow  []int         `json:"page_window"`
	Stats       listing.Stats `json:"stats"`
	CacheHit    bool          `json:"cache_hit"`
}

// List runs the full pipeline for one scope: fetch (or reuse the cached
// collection), derive statuses, filter, sort, aggregate over the filtered
// set, then paginate. Aggregates are computed before pagination so totals
// match the filters regardless of the visible page.
func (s *Service) List(ctx context.Context, bearer, scope string, params ListParams) (*ListResult, error) {
	raw, cacheHit, err := s.collection(ctx, bearer, scope)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	rows := make([]Item, 0, len(raw))
	for _, b := range raw {
		rows = append(rows, Item{
			Booking:         b,
			CanonicalStatus: b.Status(),
			Urgency:         listing.BucketUrgency(now, b.StartDate, listing.DefaultUrgencyThresholds),
		})
	}

	filtered := listing.Filter(rows, s.filterSet(params))
	sorted := s.sort(filtered, params)

	stats := listing.Aggregate(sorted, listing.AggregateOptions[Item]{
		Price:  func(i Item) float64 { return i.Booking.TotalPrice },
		Status: func(i Item) listing.Status { return i.CanonicalStatus },
		Start:  func(i Item) time.Time { return i.Booking.StartDate },
		Now:    now,
	})

	page := listing.Paginate(sorted, params.Page, params.PageSize)

	return &ListResult{
		Items:       page.Items,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		PageWindow:  page.Window(5),
		Stats:       stats,
		CacheHit:    cacheHit,
	}, nil
}

// Stats returns aggregates over the filtered (never paginated) collection.
func (s *Service) Stats(ctx context.Context, bearer, scope string, params ListParams) (*listing.Stats, error) {
	result, err := s.List(ctx, bearer, scope, params)
	if err != nil {
		return nil, err
	}
	return &result.Stats, nil
}

func (s *Service) filterSet(params ListParams) listing.FilterSet[Item] {
	return listing.FilterSet[Item]{
		Text: []listing.TextFilter[Item]{{
			Term: params.Search,
			Fields: []func(Item) string{
				func(i Item) string { return i.Booking.CustomerEmail },
				func(i Item) string { return i.Booking.SearchableText() },
			},
		}},
		Enums: []listing.EnumFilter[Item]{
			{Value: params.Status, Field: func(i Item) string { return string(i.CanonicalStatus) }},
			{Value: params.BookingType, Field: func(i Item) string { return string(i.Booking.BookingType) }},
			{Value: params.Urgency, Field: func(i Item) string { return string(i.Urgency) }},
		},
		Dates: []listing.DateRangeFilter[Item]{{
			From:  params.DateFrom,
			To:    params.DateTo,
			Field: func(i Item) time.Time { return i.Booking.StartDate },
		}},
		Numerics: []listing.NumericRangeFilter[Item]{{
			Min:   params.PriceMin,
			Max:   params.PriceMax,
			Field: func(i Item) float64 { return i.Booking.TotalPrice },
		}},
	}
}

func (s *Service) sort(rows []Item, params ListParams) []Item {
	dir := listing.Asc
	if params.Order == "desc" {
		dir = listing.Desc
	}

	switch params.SortBy {
	case "", "start_date":
		return listing.SortBy(rows, listing.ByTime(func(i Item) time.Time { return i.Booking.StartDate }), dir)
	case "end_date":
		return listing.SortBy(rows, listing.ByTime(func(i Item) time.Time { return i.Booking.EndDate }), dir)
	case "price":
		return listing.SortBy(rows, listing.ByFloat64(func(i Item) float64 { return i.Booking.TotalPrice }), dir)
	case "email":
		return listing.SortBy(rows, listing.ByString(func(i Item) string { return i.Booking.CustomerEmail }), dir)
	case "status":
		return listing.SortBy(rows, listing.ByString(func(i Item) string { return string(i.CanonicalStatus) }), dir)
	case "priority":
		return listing.SortBy(rows, listing.ByUrgency(func(i Item) listing.Urgency { return i.Urgency }), dir)
	default:
		s.logger.Warn("invalid_sort_criteria", logger.Field{Key: "sort_by", Value: params.SortBy})
		return rows
	}
}

func cacheKey(scope string) string {
	return fmt.Sprintf("bookings:%s", scope)
}

// collection returns the scope's raw collection, from cache when possible.
// A refresh carries a sequence token; a response older than the last one
// applied is served to its own caller but never written back, so rapid
// re-fetches cannot leave stale data cached.
func (s *Service) collection(ctx context.Context, bearer, scope string) ([]Booking, bool, error) {
	key := cacheKey(scope)

	cached, err := s.cache.Get(ctx, key)
	if err == nil && cached != "" {
		var bookings []Booking
		if err := json.Unmarshal([]byte(cached), &bookings); err == nil {
			s.setState(scope, StateLoaded)
			return bookings, true, nil
		}
		s.logger.Error("failed to unmarshal cached bookings", logger.Field{Key: "err", Value: err})
	}

	s.setState(scope, StateLoading)
	seq := s.idgen.GenerateID()

	bookings, err := s.client.ListBookings(ctx, bearer)
	if err != nil {
		s.setState(scope, StateErrored)
		return nil, false, fmt.Errorf("failed to load bookings: %w", err)
	}
	s.setState(scope, StateLoaded)

	s.mu.Lock()
	stale := seq <= s.lastApplied[scope]
	if !stale {
		s.lastApplied[scope] = seq
	}
	s.mu.Unlock()

	if !stale {
		if raw, err := json.Marshal(bookings); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
				s.logger.Error("failed to cache bookings", logger.Field{Key: "err", Value: err})
			}
		}
	}

	return bookings, false, nil
}

// State reports the load state of one scope's collection.
func (s *Service) State(scope string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[scope]; ok {
		return st
	}
	return StateIdle
}

func (s *Service) setState(scope string, st State) {
	s.mu.Lock()
	s.states[scope] = st
	s.mu.Unlock()
}

// invalidate drops the scope's cached collection so the next list reloads
// fresh data (reload-after-write, no optimistic patching).
func (s *Service) invalidate(ctx context.Context, scope string) {
	if err := s.cache.Del(ctx, cacheKey(scope)); err != nil {
		s.logger.Error("failed to invalidate bookings cache",
			logger.Field{Key: "scope", Value: scope},
			logger.Field{Key: "err", Value: err},
		)
	}
}

func (s *Service) Confirm(ctx context.Context, bearer, scope string, id int64) error {
	if err := s.client.ConfirmBooking(ctx, bearer, id); err != nil {
		return err
	}
	s.invalidate(ctx, scope)
	return nil
}

func (s *Service) Cancel(ctx context.Context, bearer, scope string, id int64) error {
	if err := s.client.CancelBooking(ctx, bearer, id); err != nil {
		return err
	}
	s.invalidate(ctx, scope)
	return nil
}

func (s *Service) Delete(ctx context.Context, bearer, scope string, id int64) error {
	if err := s.client.DeleteBooking(ctx, bearer, id); err != nil {
		return err
	}
	s.invalidate(ctx, scope)
	return nil
}

// BulkOutcome is the per-item result of a bulk action.
type BulkOutcome struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkConfirm confirms every id, fail-soft: one item's failure is reported
// in its outcome and never aborts the rest.
func (s *Service) BulkConfirm(ctx context.Context, bearer, scope string, ids []int64) []BulkOutcome {
	return s.bulk(ctx, scope, ids, func(id int64) error {
		return s.client.ConfirmBooking(ctx, bearer, id)
	})
}

// BulkCancel cancels every id with the same fail-soft semantics.
func (s *Service) BulkCancel(ctx context.Context, bearer, scope string, ids []int64) []BulkOutcome {
	return s.bulk(ctx, scope, ids, func(id int64) error {
		return s.client.CancelBooking(ctx, bearer, id)
	})
}

func (s *Service) bulk(ctx context.Context, scope string, ids []int64, action func(id int64) error) []BulkOutcome {
	outcomes := make([]BulkOutcome, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			if err := action(id); err != nil {
				outcomes[i] = BulkOutcome{ID: id, Error: err.Error()}
				return
			}
			outcomes[i] = BulkOutcome{ID: id, OK: true}
		}(i, id)
	}
	wg.Wait()

	// Reload once regardless of individual failures; the successfully
	// processed items must show their new state.
	s.invalidate(ctx, scope)

	return outcomes
}
