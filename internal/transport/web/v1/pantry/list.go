package pantry

import (
	"net/http"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type listResponse struct {
	Items []domain.PantryItem `json:"items"`
}

// List godoc
// @Summary     List pantry items
// @Description Все позиции кладовки текущего пользователя.
// @Tags        pantry
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=listResponse}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/pantry [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "pantry.list"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		logx.Error(h.Log, reqID, op, "unauthorized", domain.ErrUnauth)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	items, err := h.Pantry.ItemsByUser(r.Context(), me.ID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db list failed", err, "user_id", me.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "items", len(items))
	v1.WriteOKData(w, r, listResponse{Items: items})
}
