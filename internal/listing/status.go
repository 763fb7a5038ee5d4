package listing

import "strings"

// Status is the canonical booking status derived from the heterogeneous
// status fields the booking API returns.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"

	// StatusPaymentNotInitiated only exists for tour bookings, which run a
	// separate payment-intent flow. Other booking kinds collapse this case
	// into Pending.
	StatusPaymentNotInitiated Status = "PaymentNotInitiated"
)

// NormalizeStatus maps raw status and payment-status strings into the
// canonical 3-state model. Payment status takes precedence over the raw
// status; anything unrecognized falls through to Pending, never an error.
func NormalizeStatus(paymentStatus, rawStatus string) Status {
	switch normalizeToken(paymentStatus) {
	case "succeeded", "paid":
		return StatusConfirmed
	case "pending":
		return StatusPending
	case "failed", "cancelled":
		return StatusCancelled
	}

	switch normalizeToken(rawStatus) {
	case "confirmed":
		return StatusConfirmed
	case "cancelled":
		return StatusCancelled
	}

	return StatusPending
}

// NormalizeTourStatus is the 4-state variant used by tour bookings: when no
// payment process has started at all it reports PaymentNotInitiated instead
// of Pending.
func NormalizeTourStatus(paymentStatus, rawStatus string) Status {
	if normalizeToken(paymentStatus) == "" {
		switch normalizeToken(rawStatus) {
		case "confirmed":
			return StatusConfirmed
		case "cancelled":
			return StatusCancelled
		}
		return StatusPaymentNotInitiated
	}
	return NormalizeStatus(paymentStatus, rawStatus)
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
