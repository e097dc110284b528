package classification

import (
	"net/http"
	"strconv"

	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes classification HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/classifications", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Post("/run", h.run)
		r.Get("/run/{jobID}", h.job)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, http.StatusNotFound, "unknown id")
		return 0, false
	}
	return id, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	classifications, err := h.service.List(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, classifications))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, c)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var c Classification
	if err := web.Decode(r, &c); err != nil {
		web.RespondErr(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), c)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var c Classification
	if err := web.Decode(r, &c); err != nil {
		web.RespondErr(w, err)
		return
	}
	if err := h.service.Update(r.Context(), id, c); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Run(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusAccepted, job)
}

func (h *Handler) job(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Job(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, job)
}
