package food

import (
	"encoding/json"
	"net/http"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type foodRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	CaloriesPer int    `json:"calories_per_100"`
}

func (req foodRequest) valid() bool {
	return domain.ValidFoodName(req.Name) && domain.ValidUnit(req.Unit) && req.CaloriesPer >= 0
}

// Create godoc
// @Summary     Create food
// @Tags        foods
// @Accept      json
// @Produce     json
// @Param       request body foodRequest true "name, category, unit, calories_per_100"
// @Success     201 {object} domain.APIEnvelope{response=domain.Food}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/foods [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "foods.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		logx.Error(h.Log, reqID, op, "unauthorized", domain.ErrUnauth)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
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

	f, err := h.Foods.CreateFood(r.Context(), domain.Food{
		Name:        req.Name,
		Category:    req.Category,
		Unit:        req.Unit,
		CaloriesPer: req.CaloriesPer,
		CreatedBy:   me.ID,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "db create failed", err, "name", req.Name)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "food_id", f.ID, "name", f.Name)
	v1.WriteCreated(w, r, f)
}
