package user

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller as resolved by the identity service.
// This service never authenticates; it only authorizes by comparing ids and
// roles already verified upstream.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
