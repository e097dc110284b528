package warehouse

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes warehouse and location HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/warehouses", func(r chi.Router) {
		r.Get("/", h.listWarehouses)
		r.Post("/", h.createWarehouse)
		r.Get("/{id}", h.getWarehouse)
		r.Put("/{id}", h.updateWarehouse)
		r.Delete("/{id}", h.deleteWarehouse)
		r.Get("/{id}/locations", h.warehouseLocations)
	})
	r.Route("/locations", func(r chi.Router) {
		r.Get("/", h.listLocations)
		r.Post("/", h.createLocation)
		r.Get("/{id}", h.getLocation)
		r.Put("/{id}", h.updateLocation)
		r.Delete("/{id}", h.deleteLocation)
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

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.ListWarehouses(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, warehouses))
}

func (h *Handler) getWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wh, err := h.service.GetWarehouse(r.Context(), id)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, wh)
}

// warehousePayload catches the legacy plural "contacts" list so it can
// be rejected explicitly instead of dropped on the floor. The accepted
// shape is the single contact object on Warehouse.
type warehousePayload struct {
	Warehouse
	Contacts json.RawMessage `json:"contacts"`
}

func decodeWarehouse(r *http.Request) (Warehouse, error) {
	var p warehousePayload
	if err := web.Decode(r, &p); err != nil {
		return Warehouse{}, err
	}
	if len(p.Contacts) > 0 && string(p.Contacts) != "null" {
		return Warehouse{}, web.Invalid("contacts is not supported, send a single contact object")
	}
	return p.Warehouse, nil
}

func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	wh, err := decodeWarehouse(r)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	created, err := h.service.CreateWarehouse(r.Context(), wh)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, created)
}

func (h *Handler) updateWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wh, err := decodeWarehouse(r)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	if err := h.service.UpdateWarehouse(r.Context(), id, wh); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteWarehouse(r.Context(), id); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) warehouseLocations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	locations, err := h.service.WarehouseLocations(r.Context(), id)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, locations)
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.ListLocations(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, locations))
}

func (h *Handler) getLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := h.service.GetLocation(r.Context(), id)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, l)
}

func (h *Handler) createLocation(w http.ResponseWriter, r *http.Request) {
	var l Location
	if err := web.Decode(r, &l); err != nil {
		web.RespondErr(w, err)
		return
	}
	created, err := h.service.CreateLocation(r.Context(), l)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, created)
}

func (h *Handler) updateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var l Location
	if err := web.Decode(r, &l); err != nil {
		web.RespondErr(w, err)
		return
	}
	if err := h.service.UpdateLocation(r.Context(), id, l); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) deleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteLocation(r.Context(), id); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}
