package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/nestdo/backend/api/transport"
	"github.com/nestdo/backend/pkg/httpcontext"
	itemUC "github.com/nestdo/backend/usecase/item"
	listUC "github.com/nestdo/backend/usecase/list"
)

type ListHandler struct {
	baseHandler
	lists *listUC.UseCase
	items *itemUC.UseCase
}

func NewListHandler(lists *listUC.UseCase, items *itemUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ListHandler {
	return &ListHandler{
		baseHandler: newBaseHandler(adapter, logger),
		lists:       lists,
		items:       items,
	}
}

// @Summary Create list
// @Tags lists
// @Router /api/v1/lists [post]
func (h *ListHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}

	var req transport.ListRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Title == nil {
		h.respondInvalid(ctx, "title is required")
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.lists.Create(stdCtx, userID, *req.Title, description)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List my lists
// @Tags lists
// @Router /api/v1/lists [get]
func (h *ListHandler) GetAll(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lists, err := h.lists.ListMine(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lists)
}

// @Summary Get a list with its assembled item tree
// @Tags lists
// @Router /api/v1/lists/{id} [get]
func (h *ListHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	listID := pathParam(ctx, "id")
	if listID == "" {
		h.respondInvalid(ctx, "missing list id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.lists.Get(stdCtx, userID, listID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	tree, err := h.items.GetTree(stdCtx, userID, listID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"list":  list,
		"items": tree,
	})
}

// @Summary Update list
// @Tags lists
// @Router /api/v1/lists/{id} [put]
func (h *ListHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	listID := pathParam(ctx, "id")
	if listID == "" {
		h.respondInvalid(ctx, "missing list id")
		return
	}

	var req transport.ListRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.lists.Update(stdCtx, userID, listID, req.Title, req.Description)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete list (cascades to items)
// @Tags lists
// @Router /api/v1/lists/{id} [delete]
func (h *ListHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	listID := pathParam(ctx, "id")
	if listID == "" {
		h.respondInvalid(ctx, "missing list id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.lists.Delete(stdCtx, userID, listID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Complete every item in a list
// @Tags lists
// @Router /api/v1/lists/{id}/complete-all [patch]
func (h *ListHandler) CompleteAll(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	listID := pathParam(ctx, "id")
	if listID == "" {
		h.respondInvalid(ctx, "missing list id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.lists.CompleteAll(stdCtx, userID, listID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.CompleteAllResponse{Count: count})
}
