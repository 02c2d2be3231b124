package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/nestdo/backend/api/transport"
	"github.com/nestdo/backend/domain"
	"github.com/nestdo/backend/pkg/httpcontext"
	itemUC "github.com/nestdo/backend/usecase/item"
)

type ItemHandler struct {
	baseHandler
	uc *itemUC.UseCase
}

func NewItemHandler(uc *itemUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create item
// @Tags items
// @Router /api/v1/items [post]
func (h *ItemHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}

	var req transport.ItemCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if req.ListID == "" || req.Title == "" {
		h.respondInvalid(ctx, "list_id and title are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, userID, itemUC.CreateParams{
		ListID:      req.ListID,
		ParentID:    req.ParentID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get an item with its nested subtree
// @Tags items
// @Router /api/v1/items/{id} [get]
func (h *ItemHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	itemID := pathParam(ctx, "id")
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	node, err := h.uc.GetSubtree(stdCtx, userID, itemID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, node)
}

// @Summary Update item fields
// @Tags items
// @Router /api/v1/items/{id} [put]
func (h *ItemHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	itemID := pathParam(ctx, "id")
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	var req transport.ItemUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	var priority *domain.Priority
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		priority = &p
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, userID, itemID, itemUC.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Order:       req.Order,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete item and its subtree
// @Tags items
// @Router /api/v1/items/{id} [delete]
func (h *ItemHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	itemID := pathParam(ctx, "id")
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	deleted, err := h.uc.Delete(stdCtx, userID, itemID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.DeleteItemResponse{Deleted: deleted})
}

// @Summary Toggle completion (cascades and propagates)
// @Tags items
// @Router /api/v1/items/{id}/complete [patch]
func (h *ItemHandler) ToggleComplete(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	itemID := pathParam(ctx, "id")
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	it, affected, err := h.uc.ToggleComplete(stdCtx, userID, itemID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ToggleCompleteResponse{
		Item:     it,
		Affected: affected,
	})
}

// @Summary Toggle the collapse display hint
// @Tags items
// @Router /api/v1/items/{id}/collapse [patch]
func (h *ItemHandler) ToggleCollapsed(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	itemID := pathParam(ctx, "id")
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	it, err := h.uc.ToggleCollapsed(stdCtx, userID, itemID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, it)
}

// @Summary Move a root item to another list
// @Tags items
// @Router /api/v1/items/{id}/move [patch]
func (h *ItemHandler) MoveToList(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	itemID := pathParam(ctx, "id")
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	var req transport.MoveToListRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.TargetListID == "" {
		h.respondInvalid(ctx, "target_list_id is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	moved, err := h.uc.MoveToList(stdCtx, userID, itemID, req.TargetListID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, moved)
}

// @Summary Re-parent an item within its list
// @Tags items
// @Router /api/v1/items/{id}/move-to-parent [patch]
func (h *ItemHandler) MoveToParent(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}
	itemID := pathParam(ctx, "id")
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	var req transport.MoveToParentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	moved, err := h.uc.MoveToParent(stdCtx, userID, itemID, req.NewParentID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, moved)
}
