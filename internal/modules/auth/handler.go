package auth

import (
	"net/http"

	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the API-key registry endpoints. The access gate only
// admits full-access keys to the "users" resource, so no extra owner
// check is needed here.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{apiKey}", h.get)
		r.Put("/{apiKey}", h.update)
		r.Delete("/{apiKey}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, users))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "apiKey"))
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, u)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var u User
	if err := web.Decode(r, &u); err != nil {
		web.RespondErr(w, err)
		return
	}
	created, err := h.service.CreateUser(r.Context(), u)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var u User
	if err := web.Decode(r, &u); err != nil {
		web.RespondErr(w, err)
		return
	}
	if err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "apiKey"), u); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "apiKey")); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}
