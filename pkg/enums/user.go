package enums

// UserRole is the coarse access role carried in JWT claims.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleCustomer:
		return true
	}
	return false
}
