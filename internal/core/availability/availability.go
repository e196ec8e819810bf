package availability

import "cloud.google.com/go/civil"

// Day is the availability of a room on one calendar date. A date with no
// stored row is available.
type Day struct {
	Date        civil.Date `json:"date"`
	IsAvailable bool       `json:"is_available"`
	Notes       *string    `json:"notes"`

	// Explicit is false for calendar days filled in from the default.
	Explicit bool `json:"explicit"`
}

// Change is the value written to every selected day.
type Change struct {
	IsAvailable bool
	Notes       *string
}

const (
	FieldStart       = "start"
	FieldEnd         = "end"
	FieldDates       = "dates"
	FieldNotes       = "notes"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldIsAvailable = "is_available"
)
