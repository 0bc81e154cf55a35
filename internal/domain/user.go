package domain

// Role enumerates panel access levels.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSubAdmin Role = "sub-admin"
	RoleUser     Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSubAdmin, RoleUser:
		return true
	}
	return false
}

// User is a panel account. Email is the login key; the password is stored
// only as a bcrypt hash. DepartmentID is empty for accounts not attached to
// a department (admins typically).
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
}
