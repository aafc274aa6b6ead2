package handler

import (
	"net/http"
	"strings"

	"roombook/internal/model"
)

// resourcesPage is the data for the resource manager template.
type resourcesPage struct {
	User      *model.User
	Resources []model.Resource
	Saved     bool
}

// Resources handles GET /resources
// Administrator page listing all resources with add/rename/delete forms.
func (h *Handler) Resources(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	resources, err := h.resources.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "resources", resourcesPage{
		User:      u,
		Resources: resources,
		Saved:     r.URL.Query().Get("saved") == "1",
	})
}

// UpdateResources handles POST /resources
// Applies the batch of additions ("add" fields), deletions ("delete"
// checkboxes carrying resource ids) and renames ("name_<id>" fields) in one
// transaction, then redirects back to the list.
func (h *Handler) UpdateResources(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	add := r.Form["add"]
	del := r.Form["delete"]
	rename := make(map[string]string)
	for key, vals := range r.Form {
		if id, ok := strings.CutPrefix(key, "name_"); ok && len(vals) > 0 {
			rename[id] = vals[0]
		}
	}

	if err := h.resources.Apply(r.Context(), add, del, rename); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/resources?saved=1", http.StatusSeeOther)
}
