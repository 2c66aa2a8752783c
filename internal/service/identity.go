package service

import "strings"

// NormalizeIdentity prepares an identity string for use as a ledger key.
// Email-style identities (anything containing an "@") are lower-cased so
// that matching is case-insensitive for addresses; admin-entered display
// names without an "@" are preserved verbatim.  Surrounding whitespace is
// always stripped.
func NormalizeIdentity(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "@") {
		return strings.ToLower(s)
	}
	return s
}

// ValidEmail reports whether s looks like a deliverable address: exactly
// one "@" with a non-empty local part and a domain containing a dot.
// This is deliberately a syntax check only; actual ownership is proven by
// following the emailed login link.
func ValidEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return false
	}
	domain := s[at+1:]
	if domain == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
