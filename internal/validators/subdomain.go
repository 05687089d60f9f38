package validators

import "strings"

// IsSubdomainValid reports whether s is usable as a tenant subdomain: a
// single lowercase DNS label (letters, digits, inner hyphens, max 63 chars).
func IsSubdomainValid(s string) bool {
	if len(s) == 0 || len(s) > 63 {
		return false
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}

	return true
}

// NormalizeSubdomain lowercases and trims a raw header value so lookups and
// uniqueness checks always see the canonical form.
func NormalizeSubdomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
