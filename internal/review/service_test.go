package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tripadmin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUpstream struct {
	mock.Mock
}

func (m *mockUpstream) ListCompanyReviews(ctx context.Context, bearer string, ct CompanyType) ([]Review, error) {
	args := m.Called(ctx, bearer, ct)
	if v := args.Get(0); v != nil {
		return v.([]Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUpstream) CreateReview(ctx context.Context, bearer string, r Review) (*Review, error) {
	args := m.Called(ctx, bearer, r)
	if v := args.Get(0); v != nil {
		return v.(*Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUpstream) UpdateReview(ctx context.Context, bearer string, r Review) error {
	return m.Called(ctx, bearer, r).Error(0)
}

func (m *mockUpstream) DeleteReview(ctx context.Context, bearer string, id int64) error {
	return m.Called(ctx, bearer, id).Error(0)
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeCache) Del(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...logger.Field) {}
func (nopLogger) Info(string, ...logger.Field)  {}
func (nopLogger) Warn(string, ...logger.Field)  {}
func (nopLogger) Error(string, ...logger.Field) {}

func reviewsFor(ct CompanyType, ids ...int64) []Review {
	out := make([]Review, 0, len(ids))
	for _, id := range ids {
		out = append(out, Review{
			ID:            id,
			CompanyType:   ct,
			CompanyID:     1,
			CustomerEmail: "guest@example.com",
			Rating:        4,
			CreatedAt:     time.Date(2026, 7, int(id%28)+1, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestService_List_FanOutJoinsAllSources(t *testing.T) {
	upstream := new(mockUpstream)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyHotel).Return(reviewsFor(CompanyHotel, 1, 2), nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyFlight).Return(reviewsFor(CompanyFlight, 3), nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyCarRental).Return(reviewsFor(CompanyCarRental, 4), nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyTour).Return(reviewsFor(CompanyTour, 5), nil)

	c := newFakeCache()
	svc := NewService(upstream, c, 5, nopLogger{})

	result, err := svc.List(context.Background(), "token", "all", ListParams{})
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalItems)
	assert.Equal(t, 4, result.Metadata.SourcesQueried)
	assert.Equal(t, 4, result.Metadata.SourcesSucceeded)
	assert.Zero(t, result.Metadata.SourcesFailed)
	assert.False(t, result.Metadata.CacheHit)
	assert.NotEmpty(t, c.data["reviews:all"])

	// stats cover the whole filtered set
	assert.Equal(t, 5, result.Stats.TotalCount)
	assert.InDelta(t, 4.0, result.Stats.AvgRating, 0.001)
	assert.Equal(t, 2, result.Stats.ByCompanyType[CompanyHotel])
}

func TestService_List_PartialFailureKeepsSurvivors(t *testing.T) {
	upstream := new(mockUpstream)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyHotel).Return(reviewsFor(CompanyHotel, 1, 2), nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyFlight).Return(nil, errors.New("flight source down"))
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyCarRental).Return(reviewsFor(CompanyCarRental, 4), nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyTour).Return(nil, errors.New("tour source down"))

	c := newFakeCache()
	svc := NewService(upstream, c, 5, nopLogger{})

	result, err := svc.List(context.Background(), "token", "all", ListParams{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalItems)
	assert.Equal(t, 2, result.Metadata.SourcesSucceeded)
	assert.Equal(t, 2, result.Metadata.SourcesFailed)
	require.Len(t, result.Metadata.SourceErrors, 2)

	failed := map[CompanyType]string{}
	for _, se := range result.Metadata.SourceErrors {
		failed[se.CompanyType] = se.Error
	}
	assert.Contains(t, failed[CompanyFlight], "flight source down")
	assert.Contains(t, failed[CompanyTour], "tour source down")

	// partial views are never cached
	assert.Empty(t, c.data["reviews:all"])
}

func TestService_List_ServedFromCache(t *testing.T) {
	upstream := new(mockUpstream)
	upstream.On("ListCompanyReviews", mock.Anything, "token", mock.Anything).Return(reviewsFor(CompanyHotel, 1), nil).Times(4)

	svc := NewService(upstream, newFakeCache(), 5, nopLogger{})

	_, err := svc.List(context.Background(), "token", "all", ListParams{})
	require.NoError(t, err)

	result, err := svc.List(context.Background(), "token", "all", ListParams{})
	require.NoError(t, err)
	assert.True(t, result.Metadata.CacheHit)

	upstream.AssertExpectations(t)
}

func TestService_List_FiltersByCompanyTypeAndRating(t *testing.T) {
	hotel := reviewsFor(CompanyHotel, 1, 2)
	hotel[0].Rating = 2
	upstream := new(mockUpstream)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyHotel).Return(hotel, nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyFlight).Return(reviewsFor(CompanyFlight, 3), nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyCarRental).Return(nil, nil)
	upstream.On("ListCompanyReviews", mock.Anything, "token", CompanyTour).Return(nil, nil)

	svc := NewService(upstream, newFakeCache(), 5, nopLogger{})

	result, err := svc.List(context.Background(), "token", "all", ListParams{
		CompanyType: string(CompanyHotel),
		RatingMin:   3,
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.TotalItems)
	assert.Equal(t, int64(2), result.Items[0].ID)
}

func TestService_Create_InvalidatesCache(t *testing.T) {
	created := &Review{ID: 9, CompanyType: CompanyHotel}
	upstream := new(mockUpstream)
	upstream.On("CreateReview", mock.Anything, "token", mock.Anything).Return(created, nil)

	c := newFakeCache()
	c.data["reviews:company:1"] = "[]"

	svc := NewService(upstream, c, 5, nopLogger{})

	got, err := svc.Create(context.Background(), "token", "company:1", Review{CompanyType: CompanyHotel})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
	assert.Empty(t, c.data["reviews:company:1"])
}

func TestService_Delete_UpstreamErrorKeepsCache(t *testing.T) {
	upstream := new(mockUpstream)
	upstream.On("DeleteReview", mock.Anything, "token", int64(9)).Return(errors.New("not found"))

	c := newFakeCache()
	c.data["reviews:company:1"] = "[]"

	svc := NewService(upstream, c, 5, nopLogger{})

	require.Error(t, svc.Delete(context.Background(), "token", "company:1", 9))
	assert.Equal(t, "[]", c.data["reviews:company:1"])
}
