package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/pkg/errors"
)

type createItemRequest struct {
	Label    string         `json:"label"`
	URI      string         `json:"uri"`
	ParentID *int64         `json:"parentId"`
	Fields   map[string]any `json:"fields"`
}

type createItemResponse struct {
	ID int64 `json:"id"`
}

type nextOrderResponse struct {
	ParentID *int64 `json:"parentId"`
	Order    int    `json:"order"`
}

func (h *Handler) serveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.nav.Item(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, item)
}

func (h *Handler) serveCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.nav.Add(r.Context(), req.Label, req.URI, req.ParentID, toFields(req.Fields))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/items/"+strconv.FormatInt(id, 10))

	writeJSON(w, r, http.StatusCreated, createItemResponse{ID: id})
}

// serveUpdateItem applies a JSON object of column names to values
func (h *Handler) serveUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var fields map[string]any
	if err := h.decodeBody(w, r, &fields); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.nav.Edit(r.Context(), id, toFields(fields)); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serveDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.nav.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serveNextOrder(w http.ResponseWriter, r *http.Request) {
	value, err := navigation.ParseField(navigation.FieldParentID, r.URL.Query().Get("parent"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var parentID *int64
	if value != nil {
		id := value.(int64)
		parentID = &id
	}

	order, err := h.nav.NextOrder(r.Context(), parentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, nextOrderResponse{ParentID: parentID, Order: order})
}

func (h *Handler) servePurgeCache(w http.ResponseWriter, r *http.Request) {
	if err := h.nav.Purge(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.opts.MaxBodySize))

	if err := decoder.Decode(v); err != nil {
		return errors.Wrapf(errBadRequest, "could not decode body: %s", err)
	}

	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "invalid item identifier '%s'", raw)
	}

	return id, nil
}

func toFields(data map[string]any) navigation.Fields {
	fields := make(navigation.Fields, len(data))
	for key, value := range data {
		fields[navigation.Field(key)] = value
	}

	return fields
}
