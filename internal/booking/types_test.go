package booking

import (
	"encoding/json"
	"testing"
	"time"

	"tripadmin/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_UnmarshalAgencyDetails(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, b Booking)
	}{
		{
			name:    "room",
			payload: `{"id":1,"bookingType":"Room","status":"Pending","agencyDetails":{"hotelName":"Grand Palace","roomType":"Deluxe"}}`,
			check: func(t *testing.T, b Booking) {
				require.NotNil(t, b.AgencyDetails.Room)
				assert.Equal(t, "Grand Palace", b.AgencyDetails.Room.HotelName)
				assert.Nil(t, b.AgencyDetails.Car)
			},
		},
		{
			name:    "car",
			payload: `{"id":2,"bookingType":"Car","status":"Pending","agencyDetails":{"brand":"Toyota","model":"Avanza"}}`,
			check: func(t *testing.T, b Booking) {
				require.NotNil(t, b.AgencyDetails.Car)
				assert.Equal(t, "Avanza", b.AgencyDetails.Car.Model)
			},
		},
		{
			name:    "flight",
			payload: `{"id":3,"bookingType":"Flight","status":"Pending","agencyDetails":{"flightNumber":"GA417","origin":"CGK","destination":"DPS"}}`,
			check: func(t *testing.T, b Booking) {
				require.NotNil(t, b.AgencyDetails.Flight)
				assert.Equal(t, "GA417", b.AgencyDetails.Flight.FlightNumber)
			},
		},
		{
			name:    "tour",
			payload: `{"id":4,"bookingType":"Tour","status":"Pending","agencyDetails":{"tourName":"Bromo Sunrise","location":"East Java"}}`,
			check: func(t *testing.T, b Booking) {
				require.NotNil(t, b.AgencyDetails.Tour)
				assert.Equal(t, "Bromo Sunrise", b.AgencyDetails.Tour.TourName)
			},
		},
		{
			name:    "missing details",
			payload: `{"id":5,"bookingType":"Room","status":"Pending"}`,
			check: func(t *testing.T, b Booking) {
				assert.Nil(t, b.AgencyDetails.Room)
			},
		},
		{
			name:    "null details",
			payload: `{"id":6,"bookingType":"Room","status":"Pending","agencyDetails":null}`,
			check: func(t *testing.T, b Booking) {
				assert.Nil(t, b.AgencyDetails.Room)
			},
		},
		{
			name:    "unknown booking type keeps record",
			payload: `{"id":7,"bookingType":"Cruise","status":"Pending","agencyDetails":{"shipName":"Poseidon"}}`,
			check: func(t *testing.T, b Booking) {
				assert.Equal(t, int64(7), b.ID)
				assert.Equal(t, AgencyDetails{}, b.AgencyDetails)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Booking
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &b))
			tt.check(t, b)
		})
	}
}

func TestBooking_MarshalRoundTrip(t *testing.T) {
	original := Booking{
		ID:            42,
		CustomerEmail: "alice@example.com",
		BookingType:   TypeFlight,
		StartDate:     time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		TotalPrice:    510,
		RawStatus:     "Confirmed",
		PaymentStatus: "Paid",
		AgencyDetails: AgencyDetails{
			Flight: &FlightDetails{FlightNumber: "GA417", Origin: "CGK", Destination: "DPS"},
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Booking
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}

func TestBooking_Status(t *testing.T) {
	room := Booking{BookingType: TypeRoom}
	assert.Equal(t, listing.StatusPending, room.Status())

	tour := Booking{BookingType: TypeTour}
	assert.Equal(t, listing.StatusPaymentNotInitiated, tour.Status())

	paidTour := Booking{BookingType: TypeTour, PaymentStatus: "Paid"}
	assert.Equal(t, listing.StatusConfirmed, paidTour.Status())
}

func TestBooking_SearchableText(t *testing.T) {
	b := Booking{AgencyDetails: AgencyDetails{Room: &RoomDetails{HotelName: "Grand Palace", RoomType: "Deluxe"}}}
	assert.Contains(t, b.SearchableText(), "Grand Palace")

	empty := Booking{}
	assert.Empty(t, empty.SearchableText())
}
