package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"tripadmin/internal/apperr"
	"tripadmin/internal/auth"
	"tripadmin/internal/booking"
	"tripadmin/pkg/logger"
)

// Client talks to the upstream booking REST API. Errors come back as
// apperr.AppError already classified: auth, permission, not-found,
// connectivity, or generic upstream failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Client
}

func NewClient(httpClient *http.Client, baseURL string, logger logger.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// errorBody is the upstream's optional JSON error envelope.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path, bearer string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("bookingapi: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("bookingapi: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("bookingapi transport failure",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "err", Value: err},
		)
		return apperr.FromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorBody
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		c.logger.Warn("bookingapi error response",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "status", Value: resp.StatusCode},
			logger.Field{Key: "message", Value: envelope.Message},
		)
		return apperr.FromUpstreamStatus(resp.StatusCode, envelope.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("bookingapi: failed to decode response: %w", err)
		}
	}
	return nil
}

// Login checks credentials. The caller owns the context deadline.
func (c *Client) Login(ctx context.Context, username, password string) (*auth.LoginResult, error) {
	req := map[string]string{"username": username, "password": password}
	var result auth.LoginResult
	if err := c.do(ctx, http.MethodPost, "/Auth/login", "", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListBookings fetches the caller's full booking collection; filtering
// happens locally against the cached copy.
func (c *Client) ListBookings(ctx context.Context, bearer string) ([]booking.Booking, error) {
	var bookings []booking.Booking
	if err := c.do(ctx, http.MethodGet, "/Booking", bearer, nil, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) ConfirmBooking(ctx context.Context, bearer string, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Booking/confirm/%d", id), bearer, nil, nil, nil)
}

func (c *Client) CancelBooking(ctx context.Context, bearer string, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Booking/cancel/%d", id), bearer, nil, nil, nil)
}

func (c *Client) DeleteBooking(ctx context.Context, bearer string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Booking/%d", id), bearer, nil, nil, nil)
}
