package handler

import (
	"github.com/erp/procurement/internal/application/outbox"
	"github.com/gin-gonic/gin"
)

// OutboxHandler exposes dead-lettered domain events to operators
type OutboxHandler struct {
	BaseHandler
	outboxService *outbox.Service
}

// NewOutboxHandler creates a new OutboxHandler
func NewOutboxHandler(outboxService *outbox.Service) *OutboxHandler {
	return &OutboxHandler{outboxService: outboxService}
}

// ListDead godoc
// @ID           listOutboxDeadLetters
// @Summary      List dead letter entries
// @Description  Events whose delivery exhausted every retry, most recently failed first
// @Tags         outbox
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]outbox.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/dead [get]
func (h *OutboxHandler) ListDead(c *gin.Context) {
	var req outbox.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	req.Page = max(req.Page, 1)
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	entries, total, err := h.outboxService.ListDead(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, req.Page, req.PageSize)
}

// GetEntry godoc
// @ID           getOutboxEntry
// @Summary      Get an outbox entry
// @Tags         outbox
// @Produce      json
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} APIResponse[outbox.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/{id} [get]
func (h *OutboxHandler) GetEntry(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "outbox entry")
	if !ok {
		return
	}
	entry, err := h.outboxService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Retry godoc
// @ID           retryOutboxEntry
// @Summary      Requeue a dead letter entry
// @Tags         outbox
// @Produce      json
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} APIResponse[outbox.EntryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/{id}/retry [post]
func (h *OutboxHandler) Retry(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "outbox entry")
	if !ok {
		return
	}
	entry, err := h.outboxService.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryAll godoc
// @ID           retryAllOutboxEntries
// @Summary      Requeue every dead letter entry
// @Tags         outbox
// @Produce      json
// @Success      200 {object} APIResponse[outbox.RetryAllResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/dead/retry-all [post]
func (h *OutboxHandler) RetryAll(c *gin.Context) {
	result, err := h.outboxService.RetryAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Stats godoc
// @ID           getOutboxStats
// @Summary      Count outbox entries by status
// @Tags         outbox
// @Produce      json
// @Success      200 {object} APIResponse[outbox.StatsResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/stats [get]
func (h *OutboxHandler) Stats(c *gin.Context) {
	stats, err := h.outboxService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
