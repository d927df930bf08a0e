package food

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type deleteResponse struct {
	Deleted string `json:"deleted"`
}

// Delete godoc
// @Summary     Delete food
// @Description Удаляет запись справочника; доступно только автору записи.
// @Tags        foods
// @Produce     json
// @Param       id path string true "food id"
// @Success     200 {object} domain.APIEnvelope{response=deleteResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/foods/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "foods.delete"
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

	if err := h.Foods.DeleteFood(r.Context(), id, me.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// либо нет записи, либо не автор — наружу одинаково
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db delete failed", err, "food_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "food_id", id)
	v1.WriteOKResponse(w, r, deleteResponse{Deleted: id.String()})
}
