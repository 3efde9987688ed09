package auth

import "strings"

// Role labels carry the ROLE_ prefix end to end: in the users table, inside
// token claims and in route requirements.
const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleProducer = "ROLE_PRODUCER"
	RoleConsumer = "ROLE_CONSUMER"
)

// roleHierarchy maps a role to the roles it directly implies. Built once,
// read-only for the process lifetime. Expansion is transitive, so ADMIN
// reaches CONSUMER through PRODUCER.
var roleHierarchy = map[string][]string{
	RoleAdmin:    {RoleProducer},
	RoleProducer: {RoleConsumer},
}

// SplitRoles turns a comma-joined role string into its labels. Empty
// segments and surrounding whitespace are dropped.
func SplitRoles(roles string) []string {
	parts := strings.Split(roles, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// ImpliedRoles expands a comma-joined role string into the full set of held
// roles: every listed label plus everything it implies transitively. A label
// outside the hierarchy implies only itself.
func ImpliedRoles(roles string) map[string]struct{} {
	implied := map[string]struct{}{}
	queue := SplitRoles(roles)
	for len(queue) > 0 {
		role := queue[0]
		queue = queue[1:]
		if _, seen := implied[role]; seen {
			continue
		}
		implied[role] = struct{}{}
		queue = append(queue, roleHierarchy[role]...)
	}
	return implied
}

// Satisfies reports whether holding the given role string grants the
// required role, directly or through the hierarchy.
func Satisfies(roles string, required string) bool {
	_, ok := ImpliedRoles(roles)[required]
	return ok
}
