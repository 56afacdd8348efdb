package whatsapp

import (
	"strings"
)

// NormalizePhoneAR turns an Argentine phone number as people type it into E.164 digits
// without the leading '+': country code 54, mobile prefix 9, no trunk 0 and no local 15.
// It returns "" when raw holds no digits.
func NormalizePhoneAR(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return ""
	}

	s = strings.TrimLeft(s, "0")
	s = strings.TrimPrefix(s, "15")
	if !strings.HasPrefix(s, "54") {
		s = "54" + s
	}
	if !strings.HasPrefix(s, "549") {
		s = "549" + s[2:]
	}
	return s
}
