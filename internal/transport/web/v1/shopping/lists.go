package shopping

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/logx"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	v1 "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1"
)

type listRequest struct {
	Name string `json:"name"`
}

type listsResponse struct {
	Lists []domain.ShoppingList `json:"lists"`
}

type listWithItems struct {
	domain.ShoppingList
	Items []domain.ShoppingItem `json:"items"`
}

type deletedResponse struct {
	Deleted string `json:"deleted"`
}

// Lists godoc
// @Summary     List shopping lists
// @Tags        shopping
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=listsResponse}
// @Failure     401 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping [get]
func (h *Handler) Lists(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.lists"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	lists, err := h.Shopping.ListsByUser(r.Context(), me.ID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db lists failed", err, "user_id", me.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "lists", len(lists))
	v1.WriteOKData(w, r, listsResponse{Lists: lists})
}

// GetOne godoc
// @Summary     Get shopping list with items
// @Tags        shopping
// @Produce     json
// @Param       id path string true "list id"
// @Success     200 {object} domain.APIEnvelope{data=listWithItems}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.get_one"
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

	items, err := h.Shopping.ItemsByList(r.Context(), l.ID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db items failed", err, "list_id", l.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "list_id", l.ID, "items", len(items))
	v1.WriteOKData(w, r, listWithItems{ShoppingList: l, Items: items})
}

// Create godoc
// @Summary     Create shopping list
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Param       request body listRequest true "name"
// @Success     201 {object} domain.APIEnvelope{response=domain.ShoppingList}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := domain.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Name == "" || len(req.Name) > 200 {
		logx.Error(h.Log, reqID, op, "bad name", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	l, err := h.Shopping.CreateList(r.Context(), domain.ShoppingList{UserID: me.ID, Name: req.Name})
	if err != nil {
		logx.Error(h.Log, reqID, op, "db create failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "list_id", l.ID)
	v1.WriteCreated(w, r, l)
}

// Rename godoc
// @Summary     Rename shopping list
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Param       id path string true "list id"
// @Param       request body listRequest true "name"
// @Success     200 {object} domain.APIEnvelope{response=domain.ShoppingList}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping/{id} [put]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.rename"
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

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Name == "" || len(req.Name) > 200 {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	out, err := h.Shopping.RenameList(r.Context(), l.ID, me.ID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db rename failed", err, "list_id", l.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "list_id", out.ID)
	v1.WriteOKResponse(w, r, out)
}

// Delete godoc
// @Summary     Delete shopping list
// @Tags        shopping
// @Produce     json
// @Param       id path string true "list id"
// @Success     200 {object} domain.APIEnvelope{response=deletedResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /v1/shopping/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "shopping.delete"
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

	if err := h.Shopping.DeleteList(r.Context(), l.ID, me.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.ErrNotFound)
			return
		}
		logx.Error(h.Log, reqID, op, "db delete failed", err, "list_id", l.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "list_id", l.ID)
	v1.WriteOKResponse(w, r, deletedResponse{Deleted: l.ID.String()})
}
