package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)},
	}
}

// LenBetween checks the length in characters, not bytes.
func LenBetween(field, value string, minLen, maxLen int) Rule {
	return Rule{
		Check: func() bool {
			n := utf8.RuneCountInString(value)
			return n >= minLen && n <= maxLen
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be between %d and %d characters", field, minLen, maxLen),
		},
	}
}

// ValidEmail accepts a bare RFC 5322 address whose domain has at least one dot.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}
			_, domain, _ := strings.Cut(addr.Address, "@")
			if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}
			return strings.Contains(domain, ".") && !strings.Contains(domain, "..")
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("%s must be a valid email address", field)},
	}
}

func ValidUsername(field, value string, minLen, maxLen int) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < minLen || len(value) > maxLen {
				return false
			}
			return usernameRegex.MatchString(value)
		},
		Error: ValidationError{
			Field: field,
			Message: fmt.Sprintf("%s must be %d-%d characters of letters, numbers, dots, underscores or hyphens",
				field, minLen, maxLen),
		},
	}
}

// Equal checks that two inputs match, e.g. a password and its confirmation.
func Equal(field, value, other, message string) Rule {
	return Rule{
		Check: func() bool { return value == other },
		Error: ValidationError{Field: field, Message: message},
	}
}

func OneOf(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")),
		},
	}
}
