package log

import (
	"log/slog"
	"net/url"
)

// ScrubbedURL returns an attribute holding rawURL with its password masked.
func ScrubbedURL(name string, rawURL string) slog.Attr {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return slog.String(name, rawURL)
	}

	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxx")
	}

	return slog.String(name, u.String())
}
