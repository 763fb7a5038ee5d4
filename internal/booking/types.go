package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"tripadmin/internal/listing"
)

type BookingType string

const (
	TypeRoom   BookingType = "Room"
	TypeCar    BookingType = "Car"
	TypeFlight BookingType = "Flight"
	TypeTour   BookingType = "Tour"
)

// Booking is one reservation as returned by the booking API. AgencyDetails
// is a tagged union keyed by BookingType; the raw API field is free-form
// JSON, decoded into exactly one variant below.
type Booking struct {
	ID            int64         `json:"id"`
	CustomerEmail string        `json:"customerEmail"`
	BookingType   BookingType   `json:"bookingType"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
	TotalPrice    float64       `json:"totalPrice,omitempty"`
	RawStatus     string        `json:"status"`
	PaymentStatus string        `json:"paymentStatus,omitempty"`
	AgencyDetails AgencyDetails `json:"agencyDetails,omitempty"`
}

// AgencyDetails carries the booking-kind-specific payload. Exactly one
// variant is non-nil, matching the booking's type; it is display-only and
// never drives filtering.
type AgencyDetails struct {
	Room   *RoomDetails   `json:"-"`
	Car    *CarDetails    `json:"-"`
	Flight *FlightDetails `json:"-"`
	Tour   *TourDetails   `json:"-"`
}

type RoomDetails struct {
	HotelName  string `json:"hotelName"`
	RoomType   string `json:"roomType"`
	RoomNumber string `json:"roomNumber,omitempty"`
}

type CarDetails struct {
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	PickupLocation string `json:"pickupLocation,omitempty"`
}

type FlightDetails struct {
	FlightNumber string `json:"flightNumber"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
}

type TourDetails struct {
	TourName  string `json:"tourName"`
	Location  string `json:"location"`
	GuideName string `json:"guideName,omitempty"`
}

// Status derives the canonical status. Tour bookings use the 4-state model
// with PaymentNotInitiated; everything else the 3-state one.
func (b *Booking) Status() listing.Status {
	if b.BookingType == TypeTour {
		return listing.NormalizeTourStatus(b.PaymentStatus, b.RawStatus)
	}
	return listing.NormalizeStatus(b.PaymentStatus, b.RawStatus)
}

// SearchableText returns the display text a free-text search should scan.
func (b *Booking) SearchableText() string {
	switch {
	case b.AgencyDetails.Room != nil:
		return b.AgencyDetails.Room.HotelName + " " + b.AgencyDetails.Room.RoomType
	case b.AgencyDetails.Car != nil:
		return b.AgencyDetails.Car.Brand + " " + b.AgencyDetails.Car.Model
	case b.AgencyDetails.Flight != nil:
		return b.AgencyDetails.Flight.FlightNumber + " " + b.AgencyDetails.Flight.Origin + " " + b.AgencyDetails.Flight.Destination
	case b.AgencyDetails.Tour != nil:
		return b.AgencyDetails.Tour.TourName + " " + b.AgencyDetails.Tour.Location
	}
	return ""
}

type bookingAlias Booking

type bookingWire struct {
	bookingAlias
	AgencyDetailsRaw json.RawMessage `json:"agencyDetails,omitempty"`
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	var wire bookingWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*b = Booking(wire.bookingAlias)
	b.AgencyDetails = AgencyDetails{}

	if len(wire.AgencyDetailsRaw) == 0 || string(wire.AgencyDetailsRaw) == "null" {
		return nil
	}

	switch b.BookingType {
	case TypeRoom:
		b.AgencyDetails.Room = &RoomDetails{}
		return json.Unmarshal(wire.AgencyDetailsRaw, b.AgencyDetails.Room)
	case TypeCar:
		b.AgencyDetails.Car = &CarDetails{}
		return json.Unmarshal(wire.AgencyDetailsRaw, b.AgencyDetails.Car)
	case TypeFlight:
		b.AgencyDetails.Flight = &FlightDetails{}
		return json.Unmarshal(wire.AgencyDetailsRaw, b.AgencyDetails.Flight)
	case TypeTour:
		b.AgencyDetails.Tour = &TourDetails{}
		return json.Unmarshal(wire.AgencyDetailsRaw, b.AgencyDetails.Tour)
	}
	// Unknown booking type: keep the record, drop the payload
	return nil
}

func (b Booking) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	var err error

	switch {
	case b.AgencyDetails.Room != nil:
		raw, err = json.Marshal(b.AgencyDetails.Room)
	case b.AgencyDetails.Car != nil:
		raw, err = json.Marshal(b.AgencyDetails.Car)
	case b.AgencyDetails.Flight != nil:
		raw, err = json.Marshal(b.AgencyDetails.Flight)
	case b.AgencyDetails.Tour != nil:
		raw, err = json.Marshal(b.AgencyDetails.Tour)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agency details: %w", err)
	}

	return json.Marshal(bookingWire{
		bookingAlias:     bookingAlias(b),
		AgencyDetailsRaw: raw,
	})
}
