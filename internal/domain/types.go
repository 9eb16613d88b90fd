package domain

// Role values carried in access tokens.
const (
	RoleTutor = "tutor"
	RoleAdmin = "admin"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
	TutorID string `json:"tutorId,omitempty"`
}

// IsAdmin reports whether the caller may see every tutor's sessions.
func (r RequestContext) IsAdmin() bool {
	return r.Role == RoleAdmin
}
