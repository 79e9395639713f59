package tfl

import (
	"encoding/json"
	"errors"
)

var (
	// ErrStatus is returned when the API answers with a non-2xx status
	ErrStatus = errors.New("unexpected status from TfL API")
	// ErrMalformed is returned when the payload is not a list of arrivals
	// carrying lineName, destinationName and timeToStation
	ErrMalformed = errors.New("malformed arrivals payload")
)

// Arrival is one vehicle approaching the stop, as reported by the
// StopPoint/{id}/Arrivals endpoint. Only the fields we use are kept.
type Arrival struct {
	LineName string

	// DestinationName is usually a string such as "Euston, via Camden".
	// Anything else the API sends (null, numbers) is kept as decoded.
	DestinationName any

	// TimeToStation is in seconds and may be zero or negative
	TimeToStation int
}

// rawArrival is the wire shape. Pointers and RawMessage let validation
// tell a missing key apart from a zero value.
type rawArrival struct {
	LineName        *string         `json:"lineName" validate:"required"`
	DestinationName json.RawMessage `json:"destinationName" validate:"required"`
	TimeToStation   *int            `json:"timeToStation" validate:"required"`
}
