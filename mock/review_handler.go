package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func (s *store) CompanyReviewsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireBearer(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	companyType := r.URL.Query().Get("companyType")

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]mockReview, 0)
	for _, rv := range s.reviews {
		if companyType == "" || rv.CompanyType == companyType {
			matched = append(matched, rv)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matched)
}

func (s *store) ReviewsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireBearer(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var rv mockReview
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		http.Error(w, `{"message":"invalid review"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rv.ID = s.nextID
	rv.CreatedAt = time.Now()
	s.reviews = append(s.reviews, rv)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rv)
}

func (s *store) ReviewByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !requireBearer(w, r) {
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/Review/"), 10, 64)
	if err != nil {
		http.Error(w, `{"message":"invalid id"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		var rv mockReview
		if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
			http.Error(w, `{"message":"invalid review"}`, http.StatusBadRequest)
			return
		}
		for i := range s.reviews {
			if s.reviews[i].ID == id {
				rv.ID = id
				rv.CreatedAt = s.reviews[i].CreatedAt
				s.reviews[i] = rv
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		http.Error(w, `{"message":"review not found"}`, http.StatusNotFound)
	case http.MethodDelete:
		for i := range s.reviews {
			if s.reviews[i].ID == id {
				s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		http.Error(w, `{"message":"review not found"}`, http.StatusNotFound)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
