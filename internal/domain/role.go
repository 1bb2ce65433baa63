package domain

// Role is the canonical role of an acting user. Raw role strings from the
// user store are normalized to one of these at the boundary.
type Role string

const (
	RoleRequester  Role = "requester"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleRequester, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may move reservations between statuses.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleSupervisor
}
