package lastfm

import "strings"

const lowerHex = "0123456789abcdef"

// Encode percent-encodes s for use in Last.fm request parameters.
//
// Unreserved characters (ALPHA / DIGIT / "-" / "_" / "~" / ".") pass
// through unchanged. Every other byte is emitted as a lowercase,
// zero-padded %xx escape, one escape per UTF-8 byte. The service
// recomputes signatures over the encoded form, so the output must be
// byte-for-byte stable.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(lowerHex[c>>4])
		b.WriteByte(lowerHex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '~' || c == '.':
		return true
	}
	return false
}
