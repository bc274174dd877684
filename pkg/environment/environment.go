// Package environment names the deployment stage the service runs in.
package environment

import "strings"

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse accepts the full names and their short forms. Anything else is
// treated as development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	}
	return Development
}

// Deployed reports whether the service runs behind TLS with real users.
func (e Environment) Deployed() bool {
	return e == Production || e == Staging
}
