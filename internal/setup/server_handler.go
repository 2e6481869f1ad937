package setup

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bornholm/dbmenu/internal/api"
	"github.com/bornholm/dbmenu/internal/authn"
	"github.com/bornholm/dbmenu/internal/authn/basic"
	"github.com/bornholm/dbmenu/internal/config"
	"github.com/bornholm/dbmenu/internal/debug"
	"github.com/bornholm/dbmenu/internal/ratelimit"
	"github.com/bornholm/dbmenu/internal/ui"
	"github.com/pkg/errors"
	"github.com/rs/xid"

	sloghttp "github.com/samber/slog-http"
)

const (
	realm           = "dbmenu"
	requestIDHeader = "X-Request-Id"
)

func NewHandlerFromConfig(ctx context.Context, conf *config.Config) (http.Handler, error) {
	mux := &http.ServeMux{}

	slogMiddleware := sloghttp.NewWithConfig(slog.Default(), sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	})

	nav, err := NewNavigationFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics, err := NewMetricsFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	renderer, err := ui.NewRenderer()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	credentials, err := NewCredentialsFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	adminAuth := authn.Chain(
		authn.WithAuthenticators(basic.NewAuthenticator(realm, credentials)),
	)

	apiHandler := api.NewHandler(
		nav, renderer,
		api.WithAdminMiddleware(adminAuth),
		api.WithRequestCounter(metrics.APIRequests),
	)

	var handler http.Handler = apiHandler

	if conf.HTTP.RateLimit.Enabled {
		interval := 100 * time.Millisecond
		if conf.HTTP.RateLimit.RequestInterval != nil {
			interval = time.Duration(*conf.HTTP.RateLimit.RequestInterval)
		}

		rateLimiter := ratelimit.NewEvery(interval, int(conf.HTTP.RateLimit.RequestMaxBurst))
		handler = rateLimiter.Middleware(ratelimit.RemoteIP)(handler)
	}

	handler = withRequestID(slogMiddleware(handler))

	mux.Handle("/api/", handler)
	mux.Handle("/navigation", handler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("/debug/", adminAuth(debug.NewHandler("/debug")))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return mux, nil
}

var NewCredentialsFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (basic.Credentials, error) {
	credentials := basic.Credentials{}

	for _, admin := range conf.HTTP.Admins {
		if admin.Username == "" || admin.PasswordHash == "" {
			slog.WarnContext(ctx, "ignoring admin without username or password hash", slog.String("username", string(admin.Username)))
			continue
		}

		credentials[string(admin.Username)] = []byte(admin.PasswordHash)
	}

	if len(credentials) == 0 {
		slog.WarnContext(ctx, "no admin configured, navigation items cannot be modified through the api")
	}

	return credentials, nil
})

// withRequestID sets a request identifier used by the access logs
// when the client did not provide one
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(requestIDHeader) == "" {
			r.Header.Set(requestIDHeader, xid.New().String())
		}

		next.ServeHTTP(w, r)
	})
}
