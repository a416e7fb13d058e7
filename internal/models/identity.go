package models

// Role classifies an authenticated marketplace user by the owning record
// that exists for them: a Sponsor row makes them a SPONSOR, a Publisher row
// a PUBLISHER. A user with neither record has no role and cannot reach any
// role-gated endpoint.
type Role string

const (
	RoleSponsor   Role = "SPONSOR"
	RolePublisher Role = "PUBLISHER"
)

// Identity is the per-request resolved caller. It is produced once by the
// session resolver, attached to the request context by the authorization
// gate, and passed by value from there on. It is never cached across
// requests: role is re-derived from the sponsor/publisher tables on every
// call.
type Identity struct {
	UserID      string
	Email       string
	Role        Role // empty when the user owns neither record
	SponsorID   string
	PublisherID string
}

// HasRole reports whether the identity's role is one of the given roles.
func (id *Identity) HasRole(roles ...Role) bool {
	if id == nil || id.Role == "" {
		return false
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}
