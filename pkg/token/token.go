package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin roles carried in the token's role claims.
const (
	RoleSuperAdmin     = "SuperAdmin"
	RoleTourAdmin      = "TourAdmin"
	RoleFlightAdmin    = "FlightAdmin"
	RoleHotelAdmin     = "HotelAdmin"
	RoleCarRentalAdmin = "CarRentalAdmin"
)

// Claims mirrors the payload issued by the booking API. Scoped admins carry
// exactly one of the company-id claims; SuperAdmin carries none.
type Claims struct {
	UserID             string   `json:"user_id"`
	Username           string   `json:"username"`
	Roles              []string `json:"roles"`
	HotelCompanyID     int64    `json:"HotelCompanyId,omitempty"`
	FlightCompanyID    int64    `json:"FlightCompanyId,omitempty"`
	CarRentalCompanyID int64    `json:"CarRentalCompanyId,omitempty"`
	TourCompanyID      int64    `json:"TourCompanyId,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CompanyID returns the company scope for the claims' admin role, or 0 for
// SuperAdmin (unscoped).
func (c *Claims) CompanyID() int64 {
	switch {
	case c.HotelCompanyID != 0:
		return c.HotelCompanyID
	case c.FlightCompanyID != 0:
		return c.FlightCompanyID
	case c.CarRentalCompanyID != 0:
		return c.CarRentalCompanyID
	case c.TourCompanyID != 0:
		return c.TourCompanyID
	}
	return 0
}

// Service validates and issues admin tokens.
type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Generate signs a token for the given claims set. Used by the mock upstream
// and by tests; in production the booking API issues tokens.
func (s *Service) Generate(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "tripadmin",
		Subject:   claims.UserID,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !t.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// IsExpired reports whether a token's exp claim is in the past, without
// verifying the signature. Used to distinguish "expired" from "invalid"
// in auth failures.
func (s *Service) IsExpired(tokenString string) bool {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
