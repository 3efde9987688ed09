package auth

// Principal is the identity resolved from a verified token for exactly one
// request. It is never persisted; a fresh value is produced per request and
// discarded when the request completes.
type Principal struct {
	Username string
	Role     string
}

// Anonymous reports whether no identity was resolved for the request.
func (p Principal) Anonymous() bool {
	return p.Username == ""
}

// Roles returns the principal's role labels split from the comma-joined
// role string.
func (p Principal) Roles() []string {
	return SplitRoles(p.Role)
}
