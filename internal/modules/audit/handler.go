package audit

import (
	"net/http"

	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the audit log query endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/logs", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/date/{date}", h.byDate)
		r.Get("/apikey/{key}", h.byAPIKey)
		r.Get("/performedby/{actor}", h.byActor)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.All(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, entries))
}

func (h *Handler) byDate(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ByDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, entries)
}

func (h *Handler) byAPIKey(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ByAPIKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, entries)
}

func (h *Handler) byActor(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ByActor(r.Context(), chi.URLParam(r, "actor"))
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, entries)
}
