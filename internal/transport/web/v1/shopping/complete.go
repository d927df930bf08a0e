package shopping

import (
	"net/http"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type completeResponse struct {
	Moved int `json:"moved"` // купленных позиций перенесено в кладовку
}

// Complete godoc
// @Summary     Complete shopping list
// @Description Переносит купленные позиции в кладовку и убирает их из списка.
// @Tags        shopping
// @Produce     json
// @Param       id path string true "list id"
// @Success     200 {object} domain.APIEnvelope{response=completeResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping/{id}/complete [post]
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.complete"
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

	bought, err := h.Shopping.BoughtItems(r.Context(), l.ID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db bought items failed", err, "list_id", l.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	moved := 0
	for _, it := range bought {
		_, err := h.Pantry.CreateItem(r.Context(), domain.PantryItem{
			UserID:   me.ID,
			FoodID:   it.FoodID,
			Quantity: it.Quantity,
			Unit:     it.Unit,
			Location: "shelf",
		})
		if err != nil {
			logx.Error(h.Log, reqID, op, "pantry create failed", err, "list_id", l.ID, "item_id", it.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		if err := h.Shopping.RemoveItem(r.Context(), l.ID, it.ID); err != nil {
			logx.Error(h.Log, reqID, op, "remove item failed", err, "list_id", l.ID, "item_id", it.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		moved++
	}

	// затронуты и список, и кладовка — одна дедуплицированная пачка удалений
	h.Invalidator.BulkInvalidate(r.Context(), []cache.Operation{
		{Operation: "shopping_list:complete", EntityID: l.ID.String()},
		{Operation: "pantry:create"},
	})

	logx.Info(h.Log, reqID, op, "ok", "list_id", l.ID, "moved", moved)
	v1.WriteOKResponse(w, r, completeResponse{Moved: moved})
}
