package pantry

import (
	"encoding/json"
	"net/http"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

// Create godoc
// @Summary     Add pantry item
// @Tags        pantry
// @Accept      json
// @Produce     json
// @Param       request body itemRequest true "food_id, quantity, unit, location, expires_at"
// @Success     201 {object} domain.APIEnvelope{response=domain.PantryItem}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/pantry [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "pantry.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		logx.Error(h.Log, reqID, op, "unauthorized", domain.ErrUnauth)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if !req.valid() {
		logx.Error(h.Log, reqID, op, "validation failed", domain.ErrBadParams, "unit", req.Unit, "location", req.Location)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	it, err := h.Pantry.CreateItem(r.Context(), domain.PantryItem{
		UserID:    me.ID,
		FoodID:    req.FoodID,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Location:  req.Location,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "db create failed", err, "food_id", req.FoodID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "item_id", it.ID)
	v1.WriteCreated(w, r, it)
}
