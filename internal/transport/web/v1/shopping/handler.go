package shopping

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type Handler struct {
	Log         *log.Logger
	Shopping    domain.ShoppingRepo
	Pantry      domain.PantryRepo
	Invalidator *cache.Invalidator
}

// ownList достаёт список и проверяет, что он принадлежит пользователю.
// Отвечает сам при ошибке; второй результат false — обработчику пора выходить.
func (h *Handler) ownList(w http.ResponseWriter, r *http.Request, op, reqID string, me domain.User) (domain.ShoppingList, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad list id", err, "id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return domain.ShoppingList{}, false
	}

	l, err := h.Shopping.ListByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return domain.ShoppingList{}, false
		}
		logx.Error(h.Log, reqID, op, "db get list failed", err, "list_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return domain.ShoppingList{}, false
	}
	if l.UserID != me.ID {
		// чужой список наружу не светим
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return domain.ShoppingList{}, false
	}
	return l, true
}
