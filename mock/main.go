package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

// Mock booking API for local development. Serves the slice of the upstream
// contract the gateway consumes: login, bookings with confirm/cancel/delete,
// and per-company-type reviews.
func main() {
	// Default port
	port := "8081"

	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	store := newStore()

	http.HandleFunc("/Auth/login", LoginHandler)
	http.HandleFunc("/Booking", store.BookingsHandler)
	http.HandleFunc("/Booking/", store.BookingByIDHandler)
	http.HandleFunc("/Review/company", store.CompanyReviewsHandler)
	http.HandleFunc("/Review", store.ReviewsHandler)
	http.HandleFunc("/Review/", store.ReviewByIDHandler)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Mock booking API running on port %s...\n", port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
