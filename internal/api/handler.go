package api

import (
	"net/http"
	"strconv"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/ui"
)

type Handler struct {
	nav      *navigation.Navigation
	renderer *ui.Renderer
	opts     *Options
	mux      *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	h.mux.ServeHTTP(sr, r)

	h.opts.Requests.Increment(r.Pattern, strconv.Itoa(sr.status))
}

func NewHandler(nav *navigation.Navigation, renderer *ui.Renderer, funcs ...OptionFunc) *Handler {
	opts := NewOptions(funcs...)

	h := &Handler{
		nav:      nav,
		renderer: renderer,
		opts:     opts,
		mux:      &http.ServeMux{},
	}

	admin := opts.AdminMiddleware

	h.mux.HandleFunc("GET /api/navigation", h.serveTree)
	h.mux.HandleFunc("GET /navigation", h.serveRenderedTree)

	h.mux.Handle("GET /api/items/next-order", admin(http.HandlerFunc(h.serveNextOrder)))
	h.mux.Handle("GET /api/items/{id}", admin(http.HandlerFunc(h.serveItem)))
	h.mux.Handle("POST /api/items", admin(http.HandlerFunc(h.serveCreateItem)))
	h.mux.Handle("PATCH /api/items/{id}", admin(http.HandlerFunc(h.serveUpdateItem)))
	h.mux.Handle("DELETE /api/items/{id}", admin(http.HandlerFunc(h.serveDeleteItem)))
	h.mux.Handle("DELETE /api/cache", admin(http.HandlerFunc(h.servePurgeCache)))

	return h
}

var _ http.Handler = &Handler{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
