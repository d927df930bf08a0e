package food

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type imageResponse struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// UploadImage godoc
// @Summary     Upload food image
// @Description Принимает тело запроса как бинарный контент (Content-Type обязателен).
// @Tags        foods
// @Accept      octet-stream
// @Produce     json
// @Param       id path string true "food id"
// @Success     200 {object} domain.APIEnvelope{response=imageResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/foods/{id}/image [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	const op = "foods.upload_image"
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

	mime := r.Header.Get("Content-Type")
	if mime == "" || r.Body == nil {
		logx.Error(h.Log, reqID, op, "empty body or content-type", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	res, err := h.Storage.Put(r.Context(), r.Body, id.String(), mime)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage put failed", err, "food_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	if err := h.Foods.SetFoodImage(r.Context(), id, res.StorageKey); err != nil {
		logx.Error(h.Log, reqID, op, "db set image failed", err, "food_id", id, "key", res.StorageKey)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	// картинка сменилась — старая закешированная сущность больше не актуальна
	h.Cache.Del(r.Context(), domain.CacheKeyFood(id))

	logx.Info(h.Log, reqID, op, "ok", "food_id", id, "key", res.StorageKey, "size", res.Size)
	v1.WriteOKResponse(w, r, imageResponse{Key: res.StorageKey, Size: res.Size})
}

// GetImage godoc
// @Summary     Download food image
// @Tags        foods
// @Produce     octet-stream
// @Param       id path string true "food id"
// @Success     200 {file} []byte
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/foods/{id}/image [get]
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	const op = "foods.get_image"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad food id", err, "id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	f, err := h.Foods.FoodByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db get failed", err, "food_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if f.ImageKey == "" {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	rc, contentLen, contentType, err := h.Storage.Get(r.Context(), f.ImageKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage get failed", err, "food_id", id, "key", f.ImageKey)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(contentLen, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)

	logx.Info(h.Log, reqID, op, "ok", "food_id", id, "len", contentLen)
}
