package food

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

// GetOne godoc
// @Summary     Get single food
// @Tags        foods
// @Produce     json
// @Param       id path string true "food id"
// @Success     200 {object} domain.APIEnvelope{data=domain.Food}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/foods/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "foods.get_one"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad food id", err, "id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// read-through по ключу сущности; промах идёт в БД
	f, err := cache.GetOrSet(r.Context(), h.Cache, domain.CacheKeyFood(id), h.EntityTTL,
		func(ctx context.Context) (domain.Food, error) {
			return h.Foods.FoodByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logx.Error(h.Log, reqID, op, "not found", err, "food_id", id)
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db get failed", err, "food_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "food_id", f.ID)
	v1.WriteOKData(w, r, f)
}
