package user

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type Handler struct {
	Log         *log.Logger
	Users       domain.UsersRepo
	Cache       *cache.Service
	Invalidator *cache.Invalidator

	ProfileTTL int // секунд
}

type profileResponse struct {
	ID         string `json:"id"`
	KeycloakID string `json:"keycloak_id"`
	Login      string `json:"login"`
}

type updateRequest struct {
	Login string `json:"login"`
}

// Me godoc
// @Summary     Get own profile
// @Tags        users
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=profileResponse}
// @Failure     401 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "users.me"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	// профиль читается часто — держим в кеше по keycloak-subject
	u, err := cache.GetOrSet(r.Context(), h.Cache, domain.CacheKeyUserProfile(me.KeycloakID), h.ProfileTTL,
		func(ctx context.Context) (domain.User, error) {
			return h.Users.UserByKeycloakID(ctx, me.KeycloakID)
		})
	if err != nil {
		logx.Error(h.Log, reqID, op, "db get failed", err, "keycloak_id", me.KeycloakID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteOKData(w, r, profileResponse{ID: u.ID.String(), KeycloakID: u.KeycloakID, Login: u.Login})
}

// Update godoc
// @Summary     Update own profile
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body updateRequest true "login"
// @Success     200 {object} domain.APIEnvelope{response=profileResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     409 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/users/me [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "users.update"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if !domain.ValidLogin(req.Login) {
		logx.Error(h.Log, reqID, op, "bad login", domain.ErrBadParams, "login", req.Login)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UpdateUser(r.Context(), me.ID, req.Login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		// уникальный конфликт по login
		logx.Error(h.Log, reqID, op, "db update failed", err, "user_id", me.ID)
		v1.WriteDomainError(w, r, domain.ErrConflict)
		return
	}

	// профиль поменялся — гасим все его производные ключи
	h.Invalidator.InvalidateEntity(r.Context(), "user_profile", u.KeycloakID)

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "login", u.Login)
	v1.WriteOKResponse(w, r, profileResponse{ID: u.ID.String(), KeycloakID: u.KeycloakID, Login: u.Login})
}
