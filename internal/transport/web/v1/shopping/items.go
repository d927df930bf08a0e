package shopping

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type itemRequest struct {
	FoodID   uuid.UUID `json:"food_id"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
	Bought   bool      `json:"bought"`
}

// AddItem godoc
// @Summary     Add item to shopping list
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Param       id path string true "list id"
// @Param       request body itemRequest true "food_id, quantity, unit"
// @Success     201 {object} domain.APIEnvelope{response=domain.ShoppingItem}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping/{id}/items [post]
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.add_item"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	l, ok := h.ownList(w, r, op, reqID, me)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.FoodID == uuid.Nil || req.Quantity < 0 || !domain.ValidUnit(req.Unit) {
		logx.Error(h.Log, reqID, op, "validation failed", domain.ErrBadParams, "unit", req.Unit)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	it, err := h.Shopping.AddItem(r.Context(), domain.ShoppingItem{
		ListID:   l.ID,
		FoodID:   req.FoodID,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "db add failed", err, "list_id", l.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "list_id", l.ID, "item_id", it.ID)
	v1.WriteCreated(w, r, it)
}

// UpdateItem godoc
// @Summary     Update shopping list item
// @Description Количество/единица/отметка о покупке.
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Param       id     path string true "list id"
// @Param       itemId path string true "item id"
// @Param       request body itemRequest true "quantity, unit, bought"
// @Success     200 {object} domain.APIEnvelope{response=domain.ShoppingItem}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping/{id}/items/{itemId} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.update_item"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	l, ok := h.ownList(w, r, op, reqID, me)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("itemId"))
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad item id", err, "id_raw", r.PathValue("itemId"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Quantity < 0 || !domain.ValidUnit(req.Unit) {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	it, err := h.Shopping.UpdateItem(r.Context(), domain.ShoppingItem{
		ID:       itemID,
		ListID:   l.ID,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Bought:   req.Bought,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db update failed", err, "item_id", itemID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "item_id", it.ID, "bought", it.Bought)
	v1.WriteOKResponse(w, r, it)
}

// RemoveItem godoc
// @Summary     Remove shopping list item
// @Tags        shopping
// @Produce     json
// @Param       id     path string true "list id"
// @Param       itemId path string true "item id"
// @Success     200 {object} domain.APIEnvelope{response=deletedResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping/{id}/items/{itemId} [delete]
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.remove_item"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	l, ok := h.ownList(w, r, op, reqID, me)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("itemId"))
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad item id", err, "id_raw", r.PathValue("itemId"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if err := h.Shopping.RemoveItem(r.Context(), l.ID, itemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db remove failed", err, "item_id", itemID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "item_id", itemID)
	v1.WriteOKResponse(w, r, deletedResponse{Deleted: itemID.String()})
}
