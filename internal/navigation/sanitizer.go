package navigation

import "strings"

type Sanitizer interface {
	SanitizeURI(uri string) string
}

type SanitizerFunc func(uri string) string

// SanitizeURI implements Sanitizer.
func (fn SanitizerFunc) SanitizeURI(uri string) string {
	return fn(uri)
}

var DefaultSanitizer Sanitizer = SanitizerFunc(SanitizeURI)

const allowedURIPunctuation = "$-_.+!*'(),{}|\\^~[]`<>#%\";/?:@&="

// SanitizeURI removes every character that is not a letter, a digit
// or an URI punctuation sign.
func SanitizeURI(uri string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune(allowedURIPunctuation, r):
			return r
		default:
			return -1
		}
	}, strings.TrimSpace(uri))
}
