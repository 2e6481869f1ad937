package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/bornholm/dbmenu/internal/navigation/cache"
	"github.com/bornholm/dbmenu/internal/ui"
	"github.com/bornholm/dbmenu/pkg/log"
	"github.com/pkg/errors"
)

const wherePrefix = "where."

type treeQuery struct {
	CurrentURL string
	ParentID   *int64
	Slot       string
	Criteria   navigation.Criteria
}

// parseTreeQuery reads the tree parameters from the query string:
// url, parent, slot, filter (rule expression) and where.<field>
func parseTreeQuery(query url.Values) (*treeQuery, error) {
	tq := &treeQuery{
		CurrentURL: query.Get("url"),
		Slot:       query.Get("slot"),
	}

	if tq.Slot != "" {
		if err := cache.ValidateSlot(tq.Slot); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	parentID, err := navigation.ParseField(navigation.FieldParentID, query.Get("parent"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if parentID != nil {
		id := parentID.(int64)
		tq.ParentID = &id
	}

	if filter := strings.TrimSpace(query.Get("filter")); filter != "" {
		tq.Criteria.Rule = navigation.NewRule(filter)
	}

	for key, values := range query {
		if !strings.HasPrefix(key, wherePrefix) || len(values) == 0 {
			continue
		}

		field := navigation.Field(strings.TrimPrefix(key, wherePrefix))
		if field == navigation.FieldParentID {
			return nil, errors.Wrapf(navigation.ErrInvalidField, "use the 'parent' parameter instead of '%s'", key)
		}

		value, err := navigation.ParseField(field, values[0])
		if err != nil {
			return nil, errors.WithStack(err)
		}

		if tq.Criteria.Where == nil {
			tq.Criteria.Where = navigation.Fields{}
		}

		tq.Criteria.Where[field] = value
	}

	return tq, nil
}

type treeResponse struct {
	Slot string             `json:"slot,omitempty"`
	Tree []*navigation.Node `json:"tree"`
}

func (h *Handler) tree(r *http.Request) (*treeQuery, []*navigation.Node, error) {
	tq, err := parseTreeQuery(r.URL.Query())
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	ctx := log.WithAttrs(r.Context(), slog.String("currentUrl", tq.CurrentURL))

	tree, err := h.nav.Tree(ctx, tq.CurrentURL, tq.ParentID, tq.Criteria, tq.Slot)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return tq, tree, nil
}

func (h *Handler) serveTree(w http.ResponseWriter, r *http.Request) {
	tq, tree, err := h.tree(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, treeResponse{
		Slot: tq.Slot,
		Tree: tree,
	})
}

// serveRenderedTree renders the tree as HTML, a <nav> fragment by
// default or a standalone page with ?page=true
func (h *Handler) serveRenderedTree(w http.ResponseWriter, r *http.Request) {
	tq, tree, err := h.tree(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := r.URL.Query()

	data := ui.NavigationTemplateData{
		HeadTemplateData: ui.HeadTemplateData{
			PageTitle: "Navigation",
		},
		Label:      query.Get("label"),
		CurrentURL: tq.CurrentURL,
		Tree:       tree,
		ID:         query.Get("id"),
		Class:      query.Get("class"),
	}

	if data.Label == "" {
		data.Label = "Navigation"
	}

	render := h.renderer.Fragment
	if page, _ := strconv.ParseBool(query.Get("page")); page {
		render = h.renderer.Page
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := render(w, data); err != nil {
		slog.ErrorContext(r.Context(), "could not render navigation", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}
