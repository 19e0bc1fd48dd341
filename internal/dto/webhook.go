package dto

import "strconv"

// PaymentEventMetadata carries the checkout metadata attached by our own
// storefront. The provider echoes every field back as a string.
type PaymentEventMetadata struct {
	StudentID    string `json:"studentId"`
	CourseID     string `json:"courseId"`
	SessionID    string `json:"sessionId,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	ProductType  string `json:"productType,omitempty"`
	HoursPerUnit string `json:"hoursPerUnit,omitempty"`
}

// PaymentEvent is the payment-succeeded webhook payload. Amounts are in
// minor units as delivered by the provider.
type PaymentEvent struct {
	ProviderSessionID string               `json:"providerSessionId" validate:"required"`
	AmountTotal       int64                `json:"amountTotal"`
	Currency          string               `json:"currency"`
	Metadata          PaymentEventMetadata `json:"metadata"`
}

// ProductTypeDrivingHours marks orders whose credited minutes come from
// explicit hour metadata rather than the course allowance.
const ProductTypeDrivingHours = "DRIVING_HOURS"

// QuantityOrDefault parses the quantity field, defaulting to 1 when the
// metadata is absent or not a positive integer.
func (m PaymentEventMetadata) QuantityOrDefault() int {
	n, err := strconv.Atoi(m.Quantity)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// HoursPerUnitValue parses the hours-per-unit field, returning 0 when the
// metadata is absent or malformed.
func (m PaymentEventMetadata) HoursPerUnitValue() int {
	n, err := strconv.Atoi(m.HoursPerUnit)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
