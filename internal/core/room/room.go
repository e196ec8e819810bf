package room

import "time"

// Room belongs to exactly one guesthouse for its whole life.
type Room struct {
	ID             string   `json:"id"`
	GuesthouseID   string   `json:"guesthouse_id"`
	GuesthouseName string   `json:"guesthouse_name"`
	Name           string   `json:"name"`
	Description    *string  `json:"description"`
	Capacity       int      `json:"capacity"`
	PricePerNight  *float64 `json:"price_per_night"`

	// ManagerID is the manager of the owning guesthouse.
	ManagerID *string `json:"manager_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the writable fields of a room. GuesthouseID is read on create only.
type Input struct {
	GuesthouseID  string   `json:"guesthouse_id"`
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Capacity      *int     `json:"capacity"`
	PricePerNight *float64 `json:"price_per_night"`
}

// Parent is the part of the owning guesthouse a room needs.
type Parent struct {
	Name      string
	ManagerID *string
}

type Filter struct {
	ManagerID    *string
	GuesthouseID *string
	Query        string
}

type Page struct {
	Items []*Room `json:"items"`
	Total int     `json:"total"`
}

const (
	FieldGuesthouseID  = "guesthouse_id"
	FieldName          = "name"
	FieldCapacity      = "capacity"
	FieldPricePerNight = "price_per_night"
)

const (
	defaultCapacity = 1
	maxNameLength   = 200
)
