package handler

import (
	"time"

	procurementapp "github.com/erp/procurement/internal/application/procurement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurementapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *procurementapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// PurchaseOrderListQuery holds the query string of the list endpoint
type PurchaseOrderListQuery struct {
	Search     string     `form:"search"`
	SupplierID string     `form:"supplier_id" binding:"omitempty,uuid"`
	Status     string     `form:"status"`
	Statuses   []string   `form:"statuses"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (q PurchaseOrderListQuery) toFilter() procurementapp.PurchaseOrderListFilter {
	filter := procurementapp.PurchaseOrderListFilter{
		Search:    q.Search,
		Status:    q.Status,
		Statuses:  q.Statuses,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Page:      q.Page,
		PageSize:  q.PageSize,
		OrderBy:   q.OrderBy,
		OrderDir:  q.OrderDir,
	}
	if q.SupplierID != "" {
		id := uuid.MustParse(q.SupplierID)
		filter.SupplierID = &id
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return filter
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Description  Creates a DRAFT order. Currency, payment terms and delivery date default from the supplier; lines without a unit price are priced from the supplier's effective price list.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay guard key"
// @Param        request body procurementapp.CreatePurchaseOrderRequest true "Purchase order"
// @Success      201 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	var req procurementapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	order, err := h.orderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @ID           getPurchaseOrderById
// @Summary      Get a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByOrderNumber godoc
// @ID           getPurchaseOrderByOrderNumber
// @Summary      Get a purchase order by number
// @Tags         purchase-orders
// @Produce      json
// @Param        order_number path string true "Order number" example(PO-20260115-0001)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/number/{order_number} [get]
func (h *PurchaseOrderHandler) GetByOrderNumber(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), tenantID, c.Param("order_number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        search query string false "Order number, supplier name or notes"
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        status query string false "Status" Enums(DRAFT, SUBMITTED, APPROVED, SENT, ACKNOWLEDGED, PARTIALLY_RECEIVED, RECEIVED, CANCELLED, ON_HOLD)
// @Param        statuses query []string false "Any of these statuses"
// @Param        start_date query string false "Order date from" format(date)
// @Param        end_date query string false "Order date to" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]procurementapp.PurchaseOrderListItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	var query PurchaseOrderListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	filter := query.toFilter()

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetStatusSummary godoc
// @ID           getPurchaseOrderStatusSummary
// @Summary      Count purchase orders by status
// @Tags         purchase-orders
// @Produce      json
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderStatusSummary]
// @Security     BearerAuth
// @Router       /purchase-orders/stats/summary [get]
func (h *PurchaseOrderHandler) GetStatusSummary(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	summary, err := h.orderService.GetStatusSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update godoc
// @ID           updatePurchaseOrder
// @Summary      Update a draft order header
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.UpdatePurchaseOrderRequest true "Header changes"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	var req procurementapp.UpdatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.orderService.UpdateHeader(c.Request.Context(), tenantID, orderID, req))
}

// Delete godoc
// @ID           deletePurchaseOrder
// @Summary      Delete a draft or cancelled order
// @Tags         purchase-orders
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem godoc
// @ID           addPurchaseOrderItem
// @Summary      Add a line to a draft order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.AddPurchaseOrderItemRequest true "Line"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/items [post]
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	var req procurementapp.AddPurchaseOrderItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.orderService.AddItem(c.Request.Context(), tenantID, orderID, req))
}

// UpdateItem godoc
// @ID           updatePurchaseOrderItem
// @Summary      Change a line of a draft order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Param        request body procurementapp.UpdatePurchaseOrderItemRequest true "Line changes"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/items/{item_id} [put]
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "item_id", "item")
	if !ok {
		return
	}
	var req procurementapp.UpdatePurchaseOrderItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.orderService.UpdateItem(c.Request.Context(), tenantID, orderID, itemID, req))
}

// RemoveItem godoc
// @ID           removePurchaseOrderItem
// @Summary      Remove a line from a draft order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/items/{item_id} [delete]
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "item_id", "item")
	if !ok {
		return
	}
	h.respond(c)(h.orderService.RemoveItem(c.Request.Context(), tenantID, orderID, itemID))
}

// Submit godoc
// @ID           submitPurchaseOrder
// @Summary      Submit a draft for approval
// @Description  Requires at least one line, an orderable supplier and the supplier's minimum order amount.
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	h.respond(c)(h.orderService.Submit(c.Request.Context(), tenantID, orderID, userID))
}

// Approve godoc
// @ID           approvePurchaseOrder
// @Summary      Approve a pending order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	h.respond(c)(h.orderService.Approve(c.Request.Context(), tenantID, orderID, userID))
}

// Reject godoc
// @ID           rejectPurchaseOrder
// @Summary      Reject a pending order back to draft
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.RejectPurchaseOrderRequest true "Reason"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) Reject(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	var req procurementapp.RejectPurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.orderService.Reject(c.Request.Context(), tenantID, orderID, req))
}

// MarkSent godoc
// @ID           sendPurchaseOrder
// @Summary      Mark an approved order as sent to the supplier
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) MarkSent(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.orderService.MarkSent(c.Request.Context(), tenantID, orderID))
}

// Acknowledge godoc
// @ID           acknowledgePurchaseOrder
// @Summary      Record the supplier's acknowledgement
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.AcknowledgePurchaseOrderRequest false "Supplier reference"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/acknowledge [post]
func (h *PurchaseOrderHandler) Acknowledge(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	var req procurementapp.AcknowledgePurchaseOrderRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.orderService.Acknowledge(c.Request.Context(), tenantID, orderID, req))
}

// Receive godoc
// @ID           receivePurchaseOrder
// @Summary      Receive goods against an order
// @Description  Quantities accumulate per product; over-receipt is refused.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.ReceivePurchaseOrderRequest true "Received quantities"
// @Success      200 {object} APIResponse[procurementapp.ReceiveResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	var req procurementapp.ReceivePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Receive(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Hold godoc
// @ID           holdPurchaseOrder
// @Summary      Put an open order on hold
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.HoldPurchaseOrderRequest true "Reason"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/hold [post]
func (h *PurchaseOrderHandler) Hold(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	var req procurementapp.HoldPurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.orderService.Hold(c.Request.Context(), tenantID, orderID, req))
}

// Release godoc
// @ID           releasePurchaseOrder
// @Summary      Release a held order to its previous status
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/release [post]
func (h *PurchaseOrderHandler) Release(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.orderService.Release(c.Request.Context(), tenantID, orderID))
}

// Cancel godoc
// @ID           cancelPurchaseOrder
// @Summary      Cancel an order
// @Description  Not allowed once goods were received.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body procurementapp.CancelPurchaseOrderRequest true "Reason"
// @Success      200 {object} APIResponse[procurementapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	tenantID, orderID, ok := h.orderTarget(c)
	if !ok {
		return
	}
	var req procurementapp.CancelPurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.orderService.Cancel(c.Request.Context(), tenantID, orderID, req))
}

func (h *PurchaseOrderHandler) orderTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	orderID, ok := h.pathUUID(c, "id", "order")
	return tenantID, orderID, ok
}

func (h *PurchaseOrderHandler) respond(c *gin.Context) func(*procurementapp.PurchaseOrderResponse, error) {
	return func(order *procurementapp.PurchaseOrderResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, order)
	}
}
