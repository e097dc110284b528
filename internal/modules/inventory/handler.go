package inventory

import (
	"net/http"
	"strconv"

	"github.com/cargohub/cargohub-api/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes inventory and stock log HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/inventories", func(r chi.Router) {
		r.Get("/", h.listInventories)
		r.Post("/", h.createInventory)
		r.Get("/{id}", h.getInventory)
		r.Put("/{id}", h.updateInventory)
		r.Delete("/{id}", h.deleteInventory)
	})
	r.Route("/stocklogs", func(r chi.Router) {
		r.Get("/", h.listStockLogs)
		r.Post("/", h.createStockLog)
		r.Get("/{timestamp}", h.getStockLog)
		r.Put("/{timestamp}", h.updateStockLog)
		r.Delete("/{timestamp}", h.deleteStockLog)
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

func (h *Handler) listInventories(w http.ResponseWriter, r *http.Request) {
	inventories, err := h.service.ListInventories(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, inventories))
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.service.GetInventory(r.Context(), id)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, inv)
}

func (h *Handler) createInventory(w http.ResponseWriter, r *http.Request) {
	var inv Inventory
	if err := web.Decode(r, &inv); err != nil {
		web.RespondErr(w, err)
		return
	}
	created, err := h.service.CreateInventory(r.Context(), inv)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, created)
}

func (h *Handler) updateInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var inv Inventory
	if err := web.Decode(r, &inv); err != nil {
		web.RespondErr(w, err)
		return
	}
	if err := h.service.UpdateInventory(r.Context(), id, inv); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteInventory(r.Context(), id); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) listStockLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.ListStockLogs(r.Context())
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, web.Paginate(r, logs))
}

func (h *Handler) getStockLog(w http.ResponseWriter, r *http.Request) {
	sl, err := h.service.GetStockLog(r.Context(), chi.URLParam(r, "timestamp"))
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusOK, sl)
}

func (h *Handler) createStockLog(w http.ResponseWriter, r *http.Request) {
	var sl StockLog
	if err := web.Decode(r, &sl); err != nil {
		web.RespondErr(w, err)
		return
	}
	created, err := h.service.CreateStockLog(r.Context(), sl)
	if err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, created)
}

func (h *Handler) updateStockLog(w http.ResponseWriter, r *http.Request) {
	var sl StockLog
	if err := web.Decode(r, &sl); err != nil {
		web.RespondErr(w, err)
		return
	}
	if err := h.service.UpdateStockLog(r.Context(), chi.URLParam(r, "timestamp"), sl); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) deleteStockLog(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteStockLog(r.Context(), chi.URLParam(r, "timestamp")); err != nil {
		web.RespondErr(w, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}
