package schema

// RoomAvailabilityTable represents the 'room_availability' table
type RoomAvailabilityTable struct {
	Table       string
	ID          string
	RoomID      string
	Date        string
	IsAvailable string
	Notes       string
	CreatedAt   string
}

// RoomAvailability is the schema definition for room_availability
var RoomAvailability = RoomAvailabilityTable{
	Table:       "room_availability",
	ID:          "id",
	RoomID:      "room_id",
	Date:        "date",
	IsAvailable: "is_available",
	Notes:       "notes",
	CreatedAt:   "created_at",
}

// Columns returns all standard column names
func (t RoomAvailabilityTable) Columns() []string {
	return []string{
		t.ID, t.RoomID, t.Date, t.IsAvailable, t.Notes, t.CreatedAt,
	}
}
