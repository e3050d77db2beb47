package service

import "strings"

// Actor is the authenticated principal a handler resolved for the request.
// A zero ID means no identity was presented.
type Actor struct {
	ID    uint
	Name  string
	Email string
	Role  string
	IP    string
}

// Authenticated reports whether any identity is present.
func (a Actor) Authenticated() bool {
	return a.ID > 0
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return normalizeRole(a.Role) == "admin"
}

func normalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return "user"
	}
	return r
}

// sortClause maps client sort parameters onto a whitelisted ORDER BY clause.
// Unknown columns fall back to the default so user input never reaches SQL.
func sortClause(sortBy, sortOrder string, allowed map[string]string, fallback string) string {
	column, ok := allowed[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return fallback
	}

	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "asc") {
		direction = "ASC"
	}

	return column + " " + direction
}

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	domain := parts[1]
	if len(local) <= 2 {
		local = local[:1] + "***"
	} else {
		local = local[:1] + "***" + local[len(local)-1:]
	}
	return local + "@" + domain
}
