package pantry

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

// Update godoc
// @Summary     Update pantry item
// @Tags        pantry
// @Accept      json
// @Produce     json
// @Param       id path string true "pantry item id"
// @Param       request body itemRequest true "quantity, unit, location, expires_at"
// @Success     200 {object} domain.APIEnvelope{response=domain.PantryItem}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/pantry/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "pantry.update"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		logx.Error(h.Log, reqID, op, "unauthorized", domain.ErrUnauth)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad item id", err, "id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Quantity < 0 || !domain.ValidUnit(req.Unit) || !domain.ValidLocation(req.Location) {
		logx.Error(h.Log, reqID, op, "validation failed", domain.ErrBadParams, "unit", req.Unit, "location", req.Location)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	it, err := h.Pantry.UpdateItem(r.Context(), domain.PantryItem{
		ID:        id,
		UserID:    me.ID, // where-условие: чужие позиции недоступны
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Location:  req.Location,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db update failed", err, "item_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "item_id", it.ID)
	v1.WriteOKResponse(w, r, it)
}
