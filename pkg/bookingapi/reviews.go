package bookingapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"tripadmin/internal/review"
)

// ListCompanyReviews fetches reviews for one company type.
func (c *Client) ListCompanyReviews(ctx context.Context, bearer string, companyType review.CompanyType) ([]review.Review, error) {
	query := url.Values{}
	query.Set("companyType", string(companyType))

	var reviews []review.Review
	if err := c.do(ctx, http.MethodGet, "/Review/company", bearer, query, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, bearer string, r review.Review) (*review.Review, error) {
	var created review.Review
	if err := c.do(ctx, http.MethodPost, "/Review", bearer, nil, r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateReview(ctx context.Context, bearer string, r review.Review) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Review/%d", r.ID), bearer, nil, r, nil)
}

func (c *Client) DeleteReview(ctx context.Context, bearer string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Review/%d", id), bearer, nil, nil, nil)
}
