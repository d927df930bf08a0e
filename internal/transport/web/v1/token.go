package v1

import (
	"net/http"
	"strings"
)

func TokenFromRequest(r *http.Request) string {
	// 1) query ?token=...
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	// 2) Authorization: Bearer ...
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
