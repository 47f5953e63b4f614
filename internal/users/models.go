package users

// Role is the caller role carried in access tokens. Tokens are issued by the
// identity service; this module only reads them.
type Role string

const (
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

func IsValidRole(role string) bool {
	switch role {
	case string(RoleSeller), string(RoleAdmin):
		return true
	default:
		return false
	}
}
