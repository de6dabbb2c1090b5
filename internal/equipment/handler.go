package equipment

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/transport"
)

type ServiceAPI interface {
	List() ([]*Equipment, error)
	GetByID(id int64) (*Equipment, error)
	Create(dto CreateEquipmentDTO) (*Equipment, error)
	Update(ctx context.Context, id int64, dto UpdateEquipmentDTO) (*Equipment, error)
	SoftDelete(id int64) error
	Summary() (*Summary, error)
	TotalValue() (float64, error)
	ExpiringWarranty() ([]*Equipment, error)
	ExpiringWarrantyDebug() (*WarrantyDebug, error)
	GroupedByEmail() ([]*AssigneeGroup, error)
	Removed() ([]*Equipment, error)
	CountByCategory(category string) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
	}
}

// ListEquipment godoc
// @Summary List all active equipment
// @Tags equipment
// @Produce json
// @Success 200 {array} Equipment
// @Router /api/equipment [get]
func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// CreateEquipment godoc
// @Summary Register a new asset
// @Tags equipment
// @Accept json
// @Produce json
// @Success 201 {object} Equipment
// @Router /api/equipment [post]
func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var dto CreateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Create(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

// UpdateEquipment applies a full-record update. A qualifying status and
// assignee change triggers the assignment notification workflow in the
// background; the response never waits on it.
func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var dto UpdateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Equipment removed"})
}

// GetSummary godoc
// @Summary Dashboard counts per status
// @Tags equipment
// @Produce json
// @Success 200 {object} Summary
// @Router /api/equipment/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetTotalValue(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalValue()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]float64{"totalValue": total})
}

func (h *Handler) GetExpiringWarranty(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ExpiringWarranty()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// GetExpiringWarrantyDebug exposes the expiring-warranty rows together
// with the query window used to select them.
func (h *Handler) GetExpiringWarrantyDebug(w http.ResponseWriter, r *http.Request) {
	debug, err := h.service.ExpiringWarrantyDebug()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, debug)
}

func (h *Handler) GetGroupedByEmail(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.GroupedByEmail()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) GetRemoved(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Removed()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) CountByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	count, err := h.service.CountByCategory(category)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.HandleServiceError(w, internal.ErrEquipmentNotFound)
		return 0, false
	}
	return id, true
}
