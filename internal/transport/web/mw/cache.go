package mw

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
)

// Закешированный GET-ответ целиком (статус + тип + тело)
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type CacheConfig struct {
	// Префиксы путей, которые не кешируем (auth, health, swagger, бинарный контент)
	SkipPrefixes []string
}

// Cache — сквозной read-through кеш GET-запросов.
// Ключ: api:{path}:{principal}[:base64(query)]. Попадание — отдаём из кеша
// (X-Cache: HIT), промах — исполняем обработчик и записываем 2xx-ответ в кеш
// в фоне, не задерживая отправку ответа клиенту.
func Cache(svc *cache.Service, logger *log.Logger, cfg CacheConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			for _, p := range cfg.SkipPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			const op = "mw.cache"
			reqID := RequestIDFromCtx(r.Context())
			key := cacheKey(r)

			if raw, ok := svc.Get(r.Context(), key); ok {
				var resp cachedResponse
				if err := json.Unmarshal(raw, &resp); err == nil {
					if resp.ContentType != "" {
						w.Header().Set("Content-Type", resp.ContentType)
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(resp.Status)
					_, _ = w.Write(resp.Body)
					logx.Debug(logger, reqID, op, "hit", "key", key)
					return
				}
				// битая запись — считаем промахом
				logx.Warn(logger, reqID, op, "corrupt cache entry", "key", key)
			}

			w.Header().Set("X-Cache", "MISS")
			cw := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(cw, r)

			ttl := requestTTL(r, svc.DefaultTTL())
			if ttl <= 0 || cw.status < 200 || cw.status >= 300 {
				return
			}

			resp := cachedResponse{
				Status:      cw.status,
				ContentType: cw.Header().Get("Content-Type"),
				Body:        cw.buf.Bytes(),
			}
			raw, err := json.Marshal(resp)
			if err != nil {
				logx.Error(logger, reqID, op, "marshal response", err, "key", key)
				return
			}

			// Фоновая запись: ответ клиенту не ждёт кеш
			bg := context.WithoutCancel(r.Context())
			go func() {
				svc.Set(bg, key, raw, ttl)
			}()
		})
	}
}

// cacheKey: api:{path}:{principal}[:base64(query)]
func cacheKey(r *http.Request) string {
	key := "api:" + r.URL.Path + ":" + domain.PrincipalID(r.Context())
	if q := r.URL.RawQuery; q != "" {
		key += ":" + base64.StdEncoding.EncodeToString([]byte(q))
	}
	return key
}

// requestTTL читает max-age из Cache-Control запроса; иначе — дефолт сервиса
func requestTTL(r *http.Request, def int) int {
	cc := r.Header.Get("Cache-Control")
	for _, part := range strings.Split(cc, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "max-age="); ok {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return def
}

// captureWriter копирует тело ответа для последующей записи в кеш
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}
