package main

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string   `json:"token"`
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type mockClaims struct {
	UserID             string   `json:"user_id"`
	Username           string   `json:"username"`
	Roles              []string `json:"roles"`
	HotelCompanyID     int64    `json:"HotelCompanyId,omitempty"`
	FlightCompanyID    int64    `json:"FlightCompanyId,omitempty"`
	CarRentalCompanyID int64    `json:"CarRentalCompanyId,omitempty"`
	TourCompanyID      int64    `json:"TourCompanyId,omitempty"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	if s := os.Getenv("MOCK_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-secret")
}

// LoginHandler accepts any password and derives the role set from the
// username: "superadmin" is unscoped, everything else gets a scoped admin
// role with company id 1.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, `{"message":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	claims := mockClaims{
		UserID:   "u-" + req.Username,
		Username: req.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(8 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tripadmin",
			Subject:   "u-" + req.Username,
		},
	}

	switch req.Username {
	case "superadmin":
		claims.Roles = []string{"SuperAdmin"}
	case "touradmin":
		claims.Roles = []string{"TourAdmin"}
		claims.TourCompanyID = 1
	case "flightadmin":
		claims.Roles = []string{"FlightAdmin"}
		claims.FlightCompanyID = 1
	case "caradmin":
		claims.Roles = []string{"CarRentalAdmin"}
		claims.CarRentalCompanyID = 1
	default:
		claims.Roles = []string{"HotelAdmin"}
		claims.HotelCompanyID = 1
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		http.Error(w, `{"message":"failed to sign token"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{
		Token:    signed,
		UserID:   claims.UserID,
		Username: claims.Username,
		Roles:    claims.Roles,
	})
}
