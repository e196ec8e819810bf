package schema

// RoomsTable represents the 'rooms' table
type RoomsTable struct {
	Table         string
	ID            string
	GuesthouseID  string
	Name          string
	Description   string
	Capacity      string
	PricePerNight string
	CreatedAt     string
	UpdatedAt     string
}

// Rooms is the schema definition for rooms
var Rooms = RoomsTable{
	Table:         "rooms",
	ID:            "id",
	GuesthouseID:  "guesthouse_id",
	Name:          "name",
	Description:   "description",
	Capacity:      "capacity",
	PricePerNight: "price_per_night",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

// Columns returns all standard column names
func (t RoomsTable) Columns() []string {
	return []string{
		t.ID, t.GuesthouseID, t.Name, t.Description, t.Capacity,
		t.PricePerNight, t.CreatedAt, t.UpdatedAt,
	}
}
