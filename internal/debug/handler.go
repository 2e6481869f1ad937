package debug

import (
	"expvar"
	"net/http"
	"net/http/pprof"
	"strings"
)

// Handler exposes the runtime profiles and the expvar variables under a prefix
type Handler struct {
	mux *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(prefix string) *Handler {
	prefix = strings.TrimSuffix(prefix, "/")

	mux := &http.ServeMux{}

	mux.HandleFunc("GET "+prefix+"/pprof/", pprof.Index)
	mux.HandleFunc("GET "+prefix+"/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET "+prefix+"/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET "+prefix+"/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET "+prefix+"/pprof/trace", pprof.Trace)
	mux.Handle("GET "+prefix+"/vars", expvar.Handler())

	mux.HandleFunc("GET "+prefix+"/pprof/{name}", func(w http.ResponseWriter, r *http.Request) {
		pprof.Handler(r.PathValue("name")).ServeHTTP(w, r)
	})

	return &Handler{mux}
}

var _ http.Handler = &Handler{}
