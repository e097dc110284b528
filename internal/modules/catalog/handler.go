package catalog

import (
	"net/http"
	"strconv"

	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes item and taxonomy HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.listItems)
		r.Post("/", h.createItem)
		r.Get("/{uid}", h.getItem)
		r.Put("/{uid}", h.updateItem)
		r.Delete("/{uid}", h.deleteItem)
	})
	for _, kind := range []string{KindItemLines, KindItemGroups, KindItemTypes} {
		kind := kind
		r.Route("/"+kind, func(r chi.Router) {
			r.Get("/", h.listTaxonomies(kind))
			r.Post("/", h.createTaxonomy(kind))
			r.Get("/{id}", h.getTaxonomy(kind))
			r.Put("/{id}", h.updateTaxonomy(kind))
			r.Delete("/{id}", h.deleteTaxonomy(kind))
		})
	}
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, items))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.service.GetItem(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, it)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var it Item
	if err := web.Decode(r, &it); err != nil {
		web.RespondErr(w, err)
		return
	}
	created, err := h.service.CreateItem(r.Context(), it)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, created)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var it Item
	if err := web.Decode(r, &it); err != nil {
		web.RespondErr(w, err)
		return
	}
	if err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "uid"), it); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "uid")); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func taxonomyID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, http.StatusNotFound, "unknown id")
		return 0, false
	}
	return id, true
}

func (h *Handler) listTaxonomies(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.ListTaxonomies(r.Context(), kind)
		if err != nil {
			web.RespondErr(w, err)
			return
		}
		web.Respond(w, http.StatusOK, web.Paginate(r, list))
	}
}

func (h *Handler) getTaxonomy(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taxonomyID(w, r)
		if !ok {
			return
		}
		t, err := h.service.GetTaxonomy(r.Context(), kind, id)
		if err != nil {
			web.RespondErr(w, err)
			return
		}
		web.Respond(w, http.StatusOK, t)
	}
}

func (h *Handler) createTaxonomy(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t Taxonomy
		if err := web.Decode(r, &t); err != nil {
			web.RespondErr(w, err)
			return
		}
		created, err := h.service.CreateTaxonomy(r.Context(), kind, t)
		if err != nil {
			web.RespondErr(w, err)
			return
		}
		web.Respond(w, http.StatusCreated, created)
	}
}

func (h *Handler) updateTaxonomy(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taxonomyID(w, r)
		if !ok {
			return
		}
		var t Taxonomy
		if err := web.Decode(r, &t); err != nil {
			web.RespondErr(w, err)
			return
		}
		if err := h.service.UpdateTaxonomy(r.Context(), kind, id, t); err != nil {
			web.RespondErr(w, err)
			return
		}
		web.Respond(w, http.StatusNoContent, nil)
	}
}

func (h *Handler) deleteTaxonomy(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taxonomyID(w, r)
		if !ok {
			return
		}
		if err := h.service.DeleteTaxonomy(r.Context(), kind, id); err != nil {
			web.RespondErr(w, err)
			return
		}
		web.Respond(w, http.StatusNoContent, nil)
	}
}
