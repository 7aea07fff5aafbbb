package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"barterly/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

const (
	MaxItemName    = 30
	MaxDescription = 150
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a resource identifier (item/proposal uuids, category slugs).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// ItemName requires 1..30 characters after trimming.
func ItemName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n >= 1 && n <= MaxItemName
}

// Description allows empty text up to 150 characters.
func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, utf8.RuneCountInString(s) <= MaxDescription
}

// Condition is a required choice: the unset value is rejected.
func Condition(s string) (domain.Condition, bool) {
	return domain.ParseCondition(strings.ToLower(strings.TrimSpace(s)))
}

func Decision(s string) (domain.Decision, bool) {
	return domain.ParseDecision(strings.ToLower(strings.TrimSpace(s)))
}

func StatusFilter(s string) (domain.StatusFilter, bool) {
	return domain.ParseStatusFilter(strings.ToLower(strings.TrimSpace(s)))
}

// Password requires 8..20 bytes with a lowercase letter, an uppercase letter,
// a digit and a symbol.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
