package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    string
	UpdatedAt    string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	Email:        "email",
	PasswordHash: "password_hash",
	FullName:     "full_name",
	Role:         "role",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

// Columns returns all standard column names
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.PasswordHash, t.FullName, t.Role, t.CreatedAt, t.UpdatedAt,
	}
}
