package crossdock

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the cross-docking workflow endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cross-docking", func(r chi.Router) {
		r.Get("/match", h.match)
		r.Post("/receive", h.receive)
		r.Post("/ship", h.ship)
	})
}

func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
	var shipmentID *int
	if raw := r.URL.Query().Get("shipment_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			web.Error(w, http.StatusBadRequest, "shipment_id must be an integer")
			return
		}
		shipmentID = &id
	}
	result, err := h.service.Match(r.Context(), shipmentID)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	result.Matches = web.Paginate(r, result.Matches)
	web.Respond(w, http.StatusOK, result)
}

type shipmentRequest struct {
	ShipmentID int `json:"shipment_id"`
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var req shipmentRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondErr(w, err)
		return
	}
	msg, err := h.service.Receive(r.Context(), req.ShipmentID)
	if err != nil {
		h.respondWorkflowErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *Handler) ship(w http.ResponseWriter, r *http.Request) {
	var req shipmentRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondErr(w, err)
		return
	}
	msg, err := h.service.Ship(r.Context(), req.ShipmentID)
	if err != nil {
		h.respondWorkflowErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *Handler) respondWorkflowErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrAlreadyDelivered) || errors.Is(err, ErrNotReceived) {
		web.Error(w, http.StatusConflict, err.Error())
		return
	}
	web.RespondErr(w, err)
}
