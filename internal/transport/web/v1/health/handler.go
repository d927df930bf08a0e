package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type Pinger interface {
	Ping(context.Context) error
}

type Handler struct {
	Log     *log.Logger
	DB      Pinger
	Storage Pinger
	Cache   *cache.Service
}

type readyResponse struct {
	Status string      `json:"status"`
	Cache  cache.Stats `json:"cache"`
}

// Liveness godoc
// @Summary      Liveness probe
// @Description  Проверка, жив ли сервис (не зависит от БД/кэша)
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.APIEnvelope{data=string}
// @Router       /v1/healthz [get]
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	const op = "health.liveness"
	reqID := mw.RequestIDFromCtx(r.Context())

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOKData(w, r, "ok")
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Готовность сервиса: пинг БД и S3; состояние кеша информационное —
// @Description  его недоступность не роняет readiness (fail-open).
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.APIEnvelope{data=readyResponse}
// @Failure      500  {object}  domain.APIEnvelope
// @Router       /v1/readyz [get]
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	const op = "health.readiness"
	reqID := mw.RequestIDFromCtx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		logx.Error(h.Log, reqID, op, "db ping failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	if h.Storage != nil {
		if err := h.Storage.Ping(ctx); err != nil {
			logx.Error(h.Log, reqID, op, "storage ping failed", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}

	stats := h.Cache.GetStats(ctx)
	if !stats.Connected {
		logx.Warn(h.Log, reqID, op, "cache unavailable, serving degraded")
	}

	logx.Info(h.Log, reqID, op, "ready", "cache_connected", stats.Connected)
	v1.WriteOKData(w, r, readyResponse{Status: "ready", Cache: stats})
}
