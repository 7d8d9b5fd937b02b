package models

// Role is the kind of user the session belongs to.
type Role string

const (
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleProfessor || r == RoleStudent
}

// Profile is the upstream account profile.
type Profile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	StudentID   string `json:"student_id,omitempty"`
	ProfessorID string `json:"professor_id,omitempty"`
	UserType    Role   `json:"user_type"`
}

// FullName joins the first and last name.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
