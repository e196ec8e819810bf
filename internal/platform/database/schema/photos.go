package schema

// PhotosTable represents the 'photos' table
type PhotosTable struct {
	Table        string
	ID           string
	GuesthouseID string
	URL          string
	Caption      string
	DisplayOrder string
	CreatedAt    string
}

// Photos is the schema definition for photos
var Photos = PhotosTable{
	Table:        "photos",
	ID:           "id",
	GuesthouseID: "guesthouse_id",
	URL:          "url",
	Caption:      "caption",
	DisplayOrder: "display_order",
	CreatedAt:    "created_at",
}

// Columns returns all standard column names
func (t PhotosTable) Columns() []string {
	return []string{
		t.ID, t.GuesthouseID, t.URL, t.Caption, t.DisplayOrder, t.CreatedAt,
	}
}
