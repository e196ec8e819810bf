package guesthouse

import "time"

// Guesthouse is a property listing. Rooms and photos belong to it.
type Guesthouse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`

	// ManagerID is a weak reference: deleting the user leaves it NULL.
	ManagerID    *string `json:"manager_id"`
	ManagerName  *string `json:"manager_name,omitempty"`
	ManagerEmail *string `json:"manager_email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the writable fields of a guesthouse.
type Input struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	ManagerID   *string `json:"manager_id"`
}

// Filter holds the parameters for a paginated guesthouse listing.
type Filter struct {
	ManagerID *string // set by the service from the caller's scope, never from the request
	Query     string  // case-insensitive match against name and city
}

// Page is a slice of a listing with the total match count.
type Page struct {
	Items []*Guesthouse `json:"items"`
	Total int           `json:"total"`
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldCountry     = "country"
	FieldManagerID   = "manager_id"
)

const (
	maxNameLength     = 200
	maxLocationLength = 255
)
