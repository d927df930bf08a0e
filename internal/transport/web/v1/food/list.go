package food

import (
	"net/http"
	"strconv"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type listResponse struct {
	Items []domain.Food `json:"items"`
	Total int64         `json:"total"`
}

// List godoc
// @Summary     List foods
// @Description Справочник еды: фильтр по категории/подстроке имени, пагинация, сортировка.
// @Tags        foods
// @Produce     json
// @Param       category query string false "категория"
// @Param       q        query string false "подстрока имени"
// @Param       limit    query int    false "страница (default 50, max 1000)"
// @Param       offset   query int    false "смещение"
// @Param       sort     query string false "name_asc|name_desc|created_asc|created_desc"
// @Success     200 {object} domain.APIEnvelope{data=listResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/foods [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "foods.list"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	f := domain.FoodFilter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
		Sort:     domain.ListSort(r.URL.Query().Get("sort")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			logx.Error(h.Log, reqID, op, "bad limit", domain.ErrBadParams, "limit", v)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		f.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			logx.Error(h.Log, reqID, op, "bad offset", domain.ErrBadParams, "offset", v)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		f.Offset = n
	}

	items, err := h.Foods.FoodsList(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db list failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	total, err := h.Foods.FoodsCount(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db count failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "items", len(items), "total", total)
	v1.WriteOKData(w, r, listResponse{Items: items, Total: total})
}
