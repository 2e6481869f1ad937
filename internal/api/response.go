package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	"github.com/bornholm/dbmenu/pkg/log"
	"github.com/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(r.Context(), "could not encode response", log.Error(errors.WithStack(err)))
	}
}

// writeError maps the navigation errors to HTTP statuses.
// Unexpected errors are logged and their message is not disclosed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, navigation.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, navigation.ErrCycle):
		status = http.StatusConflict
	case errors.Is(err, navigation.ErrInvalidItem),
		errors.Is(err, navigation.ErrInvalidField),
		errors.Is(err, navigation.ErrUnknownField),
		errors.Is(err, navigation.ErrInvalidRule),
		errors.Is(err, cache.ErrInvalidSlot),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "could not handle request", log.Error(errors.WithStack(err)))
		writeJSON(w, r, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")
