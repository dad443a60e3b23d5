package storage

import (
	"net/url"
	"strings"
)

// IsPostgres reports whether location is a PostgreSQL connection string
// rather than a file path.
func IsPostgres(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// (URL or DSN form) carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgres(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		_, isSet := u.User.Password()
		return isSet
	}
	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return true
		}
	}
	return false
}
