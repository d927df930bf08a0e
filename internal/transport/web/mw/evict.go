package mw

import (
	"log"
	"net/http"
	"regexp"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
)

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Evict вешается на мутирующий маршрут со списком шаблонов ключей
// ("food:{id}", "food:list", ...). После успешного ответа (2xx) шаблоны
// разворачиваются по параметрам маршрута и принципалу, ключи удаляются
// из кеша по одному; ошибка удаления одного ключа не мешает остальным.
// При ошибочном ответе или панике обработчика ничего не удаляется.
func Evict(svc *cache.Service, logger *log.Logger, templates []string, next http.Handler) http.Handler {
	if len(templates) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := &metaWriter{ResponseWriter: w}
		next.ServeHTTP(mw, r)

		if mw.status < 200 || mw.status >= 300 {
			return
		}

		const op = "mw.evict"
		reqID := RequestIDFromCtx(r.Context())
		for _, tpl := range templates {
			key := resolveTemplate(r, tpl)
			svc.Del(r.Context(), key)
			logx.Debug(logger, reqID, op, "evicted", "key", key)
		}
	})
}

// resolveTemplate подставляет {placeholder}-токены: сперва параметры маршрута,
// затем алиасы принципала (id, keycloakId, userId). Неизвестный токен
// заменяется пустой строкой — это принятое поведение, не ошибка.
func resolveTemplate(r *http.Request, tpl string) string {
	return placeholderRe.ReplaceAllStringFunc(tpl, func(m string) string {
		name := m[1 : len(m)-1]
		if v := r.PathValue(name); v != "" {
			return v
		}
		u, ok := domain.UserFromCtx(r.Context())
		switch name {
		case "id":
			if ok {
				return u.ID.String()
			}
		case "keycloakId":
			if ok {
				return u.KeycloakID
			}
		case "userId":
			if ok {
				return u.ID.String()
			}
			return domain.AnonymousID
		}
		return ""
	})
}
