package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type mockBooking struct {
	ID            int64          `json:"id"`
	CustomerEmail string         `json:"customerEmail"`
	BookingType   string         `json:"bookingType"`
	StartDate     time.Time      `json:"startDate"`
	EndDate       time.Time      `json:"endDate"`
	TotalPrice    float64        `json:"totalPrice,omitempty"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"paymentStatus,omitempty"`
	AgencyDetails map[string]any `json:"agencyDetails,omitempty"`
}

type mockReview struct {
	ID            int64     `json:"id"`
	CompanyType   string    `json:"companyType"`
	CompanyID     int64     `json:"companyId"`
	CustomerEmail string    `json:"customerEmail"`
	Rating        float64   `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}

type store struct {
	mu       sync.Mutex
	bookings []mockBooking
	reviews  []mockReview
	nextID   int64
}

func newStore() *store {
	now := time.Now()
	return &store{
		nextID: 100,
		bookings: []mockBooking{
			{
				ID: 1, CustomerEmail: "alice@example.com", BookingType: "Room",
				StartDate: now.Add(12 * time.Hour), EndDate: now.Add(60 * time.Hour),
				TotalPrice: 240, Status: "Pending", PaymentStatus: "Pending",
				AgencyDetails: map[string]any{"hotelName": "Grand Palace", "roomType": "Deluxe"},
			},
			{
				ID: 2, CustomerEmail: "bob@example.com", BookingType: "Flight",
				StartDate: now.Add(48 * time.Hour), EndDate: now.Add(52 * time.Hour),
				TotalPrice: 510, Status: "Confirmed", PaymentStatus: "Paid",
				AgencyDetails: map[string]any{"flightNumber": "GA417", "origin": "CGK", "destination": "DPS"},
			},
			{
				ID: 3, CustomerEmail: "carol@example.com", BookingType: "Tour",
				StartDate: now.Add(240 * time.Hour), EndDate: now.Add(264 * time.Hour),
				TotalPrice: 890, Status: "Pending",
				AgencyDetails: map[string]any{"tourName": "Bromo Sunrise", "location": "East Java"},
			},
			{
				ID: 4, CustomerEmail: "dave@example.com", BookingType: "Car",
				StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour),
				Status: "Cancelled", PaymentStatus: "Failed",
				AgencyDetails: map[string]any{"brand": "Toyota", "model": "Avanza"},
			},
		},
		reviews: []mockReview{
			{ID: 10, CompanyType: "Hotel", CompanyID: 1, CustomerEmail: "alice@example.com", Rating: 4.5, Comment: "Great stay", CreatedAt: now.Add(-96 * time.Hour)},
			{ID: 11, CompanyType: "Flight", CompanyID: 1, CustomerEmail: "bob@example.com", Rating: 3, Comment: "Delayed an hour", CreatedAt: now.Add(-48 * time.Hour)},
			{ID: 12, CompanyType: "Tour", CompanyID: 1, CustomerEmail: "carol@example.com", Rating: 5, Comment: "Stunning views", CreatedAt: now.Add(-24 * time.Hour)},
			{ID: 13, CompanyType: "CarRental", CompanyID: 1, CustomerEmail: "dave@example.com", Rating: 2, Comment: "Car smelled of smoke", CreatedAt: now.Add(-12 * time.Hour)},
		},
	}
}

func requireBearer(w http.ResponseWriter, r *http.Request) bool {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, `{"message":"missing bearer token"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (s *store) BookingsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireBearer(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Total-Count", strconv.Itoa(len(s.bookings)))
	json.NewEncoder(w).Encode(s.bookings)
}

// BookingByIDHandler serves /Booking/{id}, /Booking/confirm/{id}, and
// /Booking/cancel/{id}.
func (s *store) BookingByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !requireBearer(w, r) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/Booking/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 2 && parts[0] == "confirm" && r.Method == http.MethodPost:
		s.setStatus(w, parts[1], "Confirmed", "Paid")
	case len(parts) == 2 && parts[0] == "cancel" && r.Method == http.MethodPost:
		s.setStatus(w, parts[1], "Cancelled", "Cancelled")
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.deleteBooking(w, parts[0])
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (s *store) setStatus(w http.ResponseWriter, rawID, status, paymentStatus string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		http.Error(w, `{"message":"invalid id"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = status
			s.bookings[i].PaymentStatus = paymentStatus
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, `{"message":"booking not found"}`, http.StatusNotFound)
}

func (s *store) deleteBooking(w http.ResponseWriter, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		http.Error(w, `{"message":"invalid id"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, `{"message":"booking not found"}`, http.StatusNotFound)
}
