package schema

// GuesthousesTable represents the 'guesthouses' table
type GuesthousesTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	Address     string
	City        string
	Country     string
	ManagerID   string
	CreatedAt   string
	UpdatedAt   string
}

// Guesthouses is the schema definition for guesthouses
var Guesthouses = GuesthousesTable{
	Table:       "guesthouses",
	ID:          "id",
	Name:        "name",
	Description: "description",
	Address:     "address",
	City:        "city",
	Country:     "country",
	ManagerID:   "manager_id",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all standard column names
func (t GuesthousesTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Description, t.Address, t.City, t.Country,
		t.ManagerID, t.CreatedAt, t.UpdatedAt,
	}
}
