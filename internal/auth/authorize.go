package auth

// AuthorizeRole decides a role-gated operation. Anonymous principals are
// always denied; otherwise the principal's roles must satisfy the required
// role through the hierarchy.
func AuthorizeRole(p Principal, required string) bool {
	if p.Anonymous() {
		return false
	}
	return Satisfies(p.Role, required)
}

// AuthorizeOwnerOrRole decides an ownership-gated operation with an elevated
// bypass role. An authenticated principal is allowed when it holds the bypass
// role or when its username matches the resource owner exactly
// (case-sensitive, no normalization).
func AuthorizeOwnerOrRole(p Principal, ownerUsername string, bypassRole string) bool {
	if p.Anonymous() {
		return false
	}
	if Satisfies(p.Role, bypassRole) {
		return true
	}
	return p.Username == ownerUsername
}
