package review

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tripadmin/internal/listing"
	"tripadmin/pkg/cache"
	"tripadmin/pkg/logger"
)

// UpstreamClient is the review slice of the booking API.
type UpstreamClient interface {
	ListCompanyReviews(ctx context.Context, bearer string, companyType CompanyType) ([]Review, error)
	CreateReview(ctx context.Context, bearer string, r Review) (*Review, error)
	UpdateReview(ctx context.Context, bearer string, r Review) error
	DeleteReview(ctx context.Context, bearer string, id int64) error
}

type Service struct {
	client UpstreamClient
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Client
}

func NewService(client UpstreamClient, cache cache.Cache, ttlMinutes int, logger logger.Client) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		logger: logger,
	}
}

type ListParams struct {
	Search      string     `form:"search"`
	CompanyType string     `form:"company_type"`
	RatingMin   float64    `form:"rating_min"`
	RatingMax   float64    `form:"rating_max"`
	DateFrom    *time.Time `form:"date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo      *time.Time `form:"date_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy      string     `form:"sort_by"`
	Order       string     `form:"order"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
}

// Stats is the review screen's aggregate shape.
type Stats struct {
	TotalCount    int                 `json:"total_count"`
	AvgRating     float64             `json:"avg_rating"`
	ByCompanyType map[CompanyType]int `json:"by_company_type"`
}

type ListResult struct {
	Items       []Review `json:"items"`
	CurrentPage int      `json:"current_page"`
	PageSize    int      `json:"page_size"`
	TotalItems  int      `json:"total_items"`
	TotalPages  int      `json:"total_pages"`
	PageWindow  []int    `json:"page_window"`
	Stats       Stats    `json:"stats"`
	Metadata    Metadata `json:"metadata"`
}

// List fetches reviews across all four company types concurrently, joins
// them fail-soft (a failing source is reported without discarding the
// others), and runs the filter/sort/aggregate/paginate pipeline.
func (s *Service) List(ctx context.Context, bearer, scope string, params ListParams) (*ListResult, error) {
	reviews, meta := s.collect(ctx, bearer, scope)

	filtered := listing.Filter(reviews, s.filterSet(params))
	sorted := s.sort(filtered, params)
	stats := aggregate(sorted)
	page := listing.Paginate(sorted, params.Page, params.PageSize)

	return &ListResult{
		Items:       page.Items,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		PageWindow:  page.Window(5),
		Stats:       stats,
		Metadata:    meta,
	}, nil
}

func cacheKey(scope string) string {
	return fmt.Sprintf("reviews:%s", scope)
}

func (s *Service) collect(ctx context.Context, bearer, scope string) ([]Review, Metadata) {
	key := cacheKey(scope)

	cached, err := s.cache.Get(ctx, key)
	if err == nil && cached != "" {
		var reviews []Review
		if err := json.Unmarshal([]byte(cached), &reviews); err == nil {
			return reviews, Metadata{
				SourcesQueried:   len(AllCompanyTypes),
				SourcesSucceeded: len(AllCompanyTypes),
				CacheHit:         true,
			}
		}
		s.logger.Error("failed to unmarshal cached reviews", logger.Field{Key: "err", Value: err})
	}

	type sourceResult struct {
		companyType CompanyType
		reviews     []Review
		err         error
	}

	results := make([]sourceResult, len(AllCompanyTypes))
	var wg sync.WaitGroup
	for i, ct := range AllCompanyTypes {
		wg.Add(1)
		go func(i int, ct CompanyType) {
			defer wg.Done()
			reviews, err := s.client.ListCompanyReviews(ctx, bearer, ct)
			results[i] = sourceResult{companyType: ct, reviews: reviews, err: err}
		}(i, ct)
	}
	wg.Wait()

	meta := Metadata{SourcesQueried: len(AllCompanyTypes)}
	var all []Review
	for _, r := range results {
		if r.err != nil {
			meta.SourcesFailed++
			meta.SourceErrors = append(meta.SourceErrors, SourceError{
				CompanyType: r.companyType,
				Error:       r.err.Error(),
			})
			s.logger.Warn("review source failed",
				logger.Field{Key: "company_type", Value: string(r.companyType)},
				logger.Field{Key: "err", Value: r.err},
			)
			continue
		}
		meta.SourcesSucceeded++
		all = append(all, r.reviews...)
	}

	// Only cache complete fetches so a partial view never sticks around
	if meta.SourcesFailed == 0 {
		if raw, err := json.Marshal(all); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
				s.logger.Error("failed to cache reviews", logger.Field{Key: "err", Value: err})
			}
		}
	}

	return all, meta
}

func (s *Service) filterSet(params ListParams) listing.FilterSet[Review] {
	return listing.FilterSet[Review]{
		Text: []listing.TextFilter[Review]{{
			Term: params.Search,
			Fields: []func(Review) string{
				func(r Review) string { return r.CustomerEmail },
				func(r Review) string { return r.Comment },
			},
		}},
		Enums: []listing.EnumFilter[Review]{
			{Value: params.CompanyType, Field: func(r Review) string { return string(r.CompanyType) }},
		},
		Dates: []listing.DateRangeFilter[Review]{{
			From:      params.DateFrom,
			To:        params.DateTo,
			Field:     func(r Review) time.Time { return r.CreatedAt },
			WholeDays: true,
		}},
		Numerics: []listing.NumericRangeFilter[Review]{{
			Min:   params.RatingMin,
			Max:   params.RatingMax,
			Field: func(r Review) float64 { return r.Rating },
		}},
	}
}

func (s *Service) sort(reviews []Review, params ListParams) []Review {
	dir := listing.Asc
	if params.Order == "desc" {
		dir = listing.Desc
	}

	switch params.SortBy {
	case "", "created_at":
		return listing.SortBy(reviews, listing.ByTime(func(r Review) time.Time { return r.CreatedAt }), dir)
	case "rating":
		return listing.SortBy(reviews, listing.ByFloat64(func(r Review) float64 { return r.Rating }), dir)
	case "email":
		return listing.SortBy(reviews, listing.ByString(func(r Review) string { return r.CustomerEmail }), dir)
	default:
		s.logger.Warn("invalid_sort_criteria", logger.Field{Key: "sort_by", Value: params.SortBy})
		return reviews
	}
}

func aggregate(reviews []Review) Stats {
	stats := Stats{
		TotalCount:    len(reviews),
		ByCompanyType: make(map[CompanyType]int),
	}
	var ratingSum float64
	for _, r := range reviews {
		ratingSum += r.Rating
		stats.ByCompanyType[r.CompanyType]++
	}
	if len(reviews) > 0 {
		stats.AvgRating = ratingSum / float64(len(reviews))
	}
	return stats
}

func (s *Service) invalidate(ctx context.Context, scope string) {
	if err := s.cache.Del(ctx, cacheKey(scope)); err != nil {
		s.logger.Error("failed to invalidate reviews cache",
			logger.Field{Key: "scope", Value: scope},
			logger.Field{Key: "err", Value: err},
		)
	}
}

func (s *Service) Create(ctx context.Context, bearer, scope string, r Review) (*Review, error) {
	created, err := s.client.CreateReview(ctx, bearer, r)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, scope)
	return created, nil
}

func (s *Service) Update(ctx context.Context, bearer, scope string, r Review) error {
	if err := s.client.UpdateReview(ctx, bearer, r); err != nil {
		return err
	}
	s.invalidate(ctx, scope)
	return nil
}

func (s *Service) Delete(ctx context.Context, bearer, scope string, id int64) error {
	if err := s.client.DeleteReview(ctx, bearer, id); err != nil {
		return err
	}
	s.invalidate(ctx, scope)
	return nil
}
