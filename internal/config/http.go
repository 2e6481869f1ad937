package config

import (
	"time"

	"github.com/goccy/go-yaml"
)

type HTTP struct {
	Address   InterpolatedString `yaml:"address"`
	BaseURL   InterpolatedString `yaml:"baseUrl"`
	RateLimit RateLimit          `yaml:"rateLimit"`
	Admins    []Admin            `yaml:"admins"`
}

type RateLimit struct {
	Enabled         InterpolatedBool      `yaml:"enabled"`
	RequestInterval *InterpolatedDuration `yaml:"requestInterval"`
	RequestMaxBurst InterpolatedInt       `yaml:"requestMaxBurst"`
}

type Admin struct {
	Username     InterpolatedString `yaml:"username"`
	// PasswordHash is a bcrypt hash of the admin password
	PasswordHash InterpolatedString `yaml:"passwordHash"`
}

func NewDefaultHTTPConfig() HTTP {
	return HTTP{
		Address:   "${DBMENU_HTTP_ADDRESS:-:8080}",
		BaseURL:   "${DBMENU_HTTP_BASE_URL:-http://localhost:8080}",
		RateLimit: RateLimit{
			Enabled:         true,
			RequestInterval: NewInterpolatedDuration(100 * time.Millisecond),
			RequestMaxBurst: 20,
		},
		Admins: []Admin{
			{
				Username:     "${DBMENU_ADMIN_USERNAME:-admin}",
				PasswordHash: "${DBMENU_ADMIN_PASSWORD_HASH}",
			},
		},
	}
}

func NewHTTPConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                           []*yaml.Comment{yaml.HeadComment(" Webserver configuration")},
		".address":                   []*yaml.Comment{yaml.HeadComment(" Webserver's listening address")},
		".baseUrl":                   []*yaml.Comment{yaml.HeadComment(" Public base URL, used to build absolute links")},
		".rateLimit":                 []*yaml.Comment{yaml.HeadComment(" Per client rate limiting of the API")},
		".rateLimit.requestInterval": []*yaml.Comment{yaml.HeadComment(" Minimum interval between two requests once the burst is exhausted")},
		".admins":                    []*yaml.Comment{yaml.HeadComment(" Users allowed to modify the navigation items")},
		".admins[0].passwordHash":    []*yaml.Comment{yaml.HeadComment(" Bcrypt hash of the password, see 'navctl hash-password'", " Prefer an environment variable, '$' signs of a literal hash are interpolated")},
	}
}
