// Package validate provides syntax validation for network identifiers
// received from API clients. Validation always happens before a value
// reaches a subprocess argument or a socket, so these checks double as
// the command-injection defense.
package validate

import (
	"regexp"
	"strings"
)

// ipv4Pattern matches 0.0.0.0 through 255.255.255.255 with no extra
// characters. Hostnames, CIDR notation and IPv6 must be rejected here,
// not resolved.
var ipv4Pattern = regexp.MustCompile(
	`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}` +
		`(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

// MAC address layouts: colon-separated, hyphen-separated, or bare.
var macPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`),
	regexp.MustCompile(`^(?:[0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2}$`),
	regexp.MustCompile(`^[0-9A-Fa-f]{12}$`),
}

// IPv4 reports whether s, after trimming surrounding whitespace, is four
// dot-separated decimal octets each in [0,255].
func IPv4(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return ipv4Pattern.MatchString(s)
}

// MAC reports whether s, after trimming surrounding whitespace, matches
// exactly one of the three canonical MAC address layouts. Hex digits are
// case-insensitive; mixed separators are rejected.
func MAC(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, p := range macPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// NormalizeMAC rewrites a bare 12-hex-digit MAC into colon-separated form
// so it can be handed to net.ParseMAC, which does not accept the bare
// layout. Separated layouts pass through unchanged. Callers must have
// validated s with MAC first.
func NormalizeMAC(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 12 || strings.ContainsAny(s, ":-") {
		return s
	}
	groups := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		groups = append(groups, s[i:i+2])
	}
	return strings.Join(groups, ":")
}
