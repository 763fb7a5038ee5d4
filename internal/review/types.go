package review

import "time"

type CompanyType string

const (
	CompanyHotel     CompanyType = "Hotel"
	CompanyFlight    CompanyType = "Flight"
	CompanyCarRental CompanyType = "CarRental"
	CompanyTour      CompanyType = "Tour"
)

// AllCompanyTypes is the fan-out order for cross-company review fetches.
var AllCompanyTypes = []CompanyType{CompanyHotel, CompanyFlight, CompanyCarRental, CompanyTour}

type Review struct {
	ID            int64       `json:"id"`
	CompanyType   CompanyType `json:"companyType"`
	CompanyID     int64       `json:"companyId"`
	CustomerEmail string      `json:"customerEmail"`
	Rating        float64     `json:"rating"`
	Comment       string      `json:"comment"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// SourceError records one company type whose fetch failed during a fan-out;
// the other sources' reviews are still returned.
type SourceError struct {
	CompanyType CompanyType `json:"company_type"`
	Error       string      `json:"error"`
}

// Metadata describes how the fan-out went.
type Metadata struct {
	SourcesQueried   int           `json:"sources_queried"`
	SourcesSucceeded int           `json:"sources_succeeded"`
	SourcesFailed    int           `json:"sources_failed"`
	SourceErrors     []SourceError `json:"source_errors,omitempty"`
	CacheHit         bool          `json:"cache_hit"`
}
