package food

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
// @Summary     Update food
// @Tags        foods
// @Accept      json
// @Produce     json
// @Param       id path string true "food id"
// @Param       request body foodRequest true "name, category, unit, calories_per_100"
// @Success     200 {object} domain.APIEnvelope{response=domain.Food}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/foods/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "foods.update"
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
		logx.Error(h.Log, reqID, op, "bad food id", err, "id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if !req.valid() {
		logx.Error(h.Log, reqID, op, "validation failed", domain.ErrBadParams, "name", req.Name, "unit", req.Unit)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// менять запись может только её автор
	cur, err := h.Foods.FoodByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db get failed", err, "food_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if cur.CreatedBy != me.ID {
		logx.Error(h.Log, reqID, op, "forbidden", domain.ErrForbidden, "food_id", id, "user_id", me.ID)
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	f, err := h.Foods.UpdateFood(r.Context(), domain.Food{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Unit:        req.Unit,
		CaloriesPer: req.CaloriesPer,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db update failed", err, "food_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "food_id", f.ID)
	v1.WriteOKResponse(w, r, f)
}
