package handler

import (
	"time"

	procurementapp "github.com/erp/procurement/internal/application/procurement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceListHandler handles supplier price list API endpoints
type PriceListHandler struct {
	BaseHandler
	priceListService *procurementapp.PriceListService
}

// NewPriceListHandler creates a new PriceListHandler
func NewPriceListHandler(priceListService *procurementapp.PriceListService) *PriceListHandler {
	return &PriceListHandler{priceListService: priceListService}
}

// PriceListQuery holds the query string of the list endpoint
type PriceListQuery struct {
	Search     string `form:"search"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	IsActive   *bool  `form:"is_active"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PriceQuoteQuery holds the query string of the quote endpoint
type PriceQuoteQuery struct {
	SupplierID string     `form:"supplier_id" binding:"required,uuid"`
	ProductID  string     `form:"product_id" binding:"required,uuid"`
	Quantity   string     `form:"quantity" binding:"required"`
	Date       *time.Time `form:"date" time_format:"2006-01-02" time_utc:"1"`
}

// Create godoc
// @ID           createPriceList
// @Summary      Create a supplier price list
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay guard key"
// @Param        request body procurementapp.CreatePriceListRequest true "Price list"
// @Success      201 {object} APIResponse[procurementapp.PriceListResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists [post]
func (h *PriceListHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	var req procurementapp.CreatePriceListRequest
	if !h.bindJSON(c, &req) {
		return
	}

	priceList, err := h.priceListService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, priceList)
}

// GetByID godoc
// @ID           getPriceListById
// @Summary      Get a price list
// @Tags         price-lists
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/{id} [get]
func (h *PriceListHandler) GetByID(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.priceListService.GetByID(c.Request.Context(), tenantID, priceListID))
}

// List godoc
// @ID           listPriceLists
// @Summary      List price lists
// @Tags         price-lists
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(effective_from)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]procurementapp.PriceListResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists [get]
func (h *PriceListHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	var query PriceListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	filter := procurementapp.PriceListFilter{
		Search:   query.Search,
		IsActive: query.IsActive,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}
	if query.SupplierID != "" {
		id := uuid.MustParse(query.SupplierID)
		filter.SupplierID = &id
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	priceLists, total, err := h.priceListService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, priceLists, total, filter.Page, filter.PageSize)
}

// Quote godoc
// @ID           quotePrice
// @Summary      Quote a supplier price
// @Description  Among active lists effective on the date, the one with the latest start that carries the product at the quantity wins.
// @Tags         price-lists
// @Produce      json
// @Param        supplier_id query string true "Supplier ID" format(uuid)
// @Param        product_id query string true "Product ID" format(uuid)
// @Param        quantity query string true "Order quantity" example(10)
// @Param        date query string false "Pricing date, today when empty" format(date)
// @Success      200 {object} APIResponse[procurementapp.PriceQuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/quote [get]
func (h *PriceListHandler) Quote(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	var query PriceQuoteQuery
	if !h.bindQuery(c, &query) {
		return
	}
	quantity, err := decimal.NewFromString(query.Quantity)
	if err != nil {
		h.BadRequest(c, "Invalid quantity")
		return
	}

	quote, err := h.priceListService.QuotePrice(c.Request.Context(), tenantID, procurementapp.QuoteRequest{
		SupplierID: uuid.MustParse(query.SupplierID),
		ProductID:  uuid.MustParse(query.ProductID),
		Quantity:   quantity,
		Date:       query.Date,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Update godoc
// @ID           updatePriceList
// @Summary      Rename a price list or change its notes
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Param        request body procurementapp.UpdatePriceListRequest true "Changes"
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/{id} [put]
func (h *PriceListHandler) Update(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	var req procurementapp.UpdatePriceListRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.priceListService.Update(c.Request.Context(), tenantID, priceListID, req))
}

// ChangePeriod godoc
// @ID           changePriceListPeriod
// @Summary      Change the effective window
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Param        request body procurementapp.ChangeEffectivePeriodRequest true "Effective window"
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/{id}/period [put]
func (h *PriceListHandler) ChangePeriod(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	var req procurementapp.ChangeEffectivePeriodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.priceListService.ChangeEffectivePeriod(c.Request.Context(), tenantID, priceListID, req))
}

// Activate godoc
// @ID           activatePriceList
// @Summary      Activate a price list
// @Tags         price-lists
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Security     BearerAuth
// @Router       /price-lists/{id}/activate [post]
func (h *PriceListHandler) Activate(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.priceListService.Activate(c.Request.Context(), tenantID, priceListID))
}

// Deactivate godoc
// @ID           deactivatePriceList
// @Summary      Deactivate a price list
// @Tags         price-lists
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Security     BearerAuth
// @Router       /price-lists/{id}/deactivate [post]
func (h *PriceListHandler) Deactivate(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.priceListService.Deactivate(c.Request.Context(), tenantID, priceListID))
}

// Delete godoc
// @ID           deletePriceList
// @Summary      Delete a price list
// @Tags         price-lists
// @Param        id path string true "Price list ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/{id} [delete]
func (h *PriceListHandler) Delete(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	if err := h.priceListService.Delete(c.Request.Context(), tenantID, priceListID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem godoc
// @ID           addPriceListItem
// @Summary      Add a product price
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Param        request body procurementapp.PriceListItemRequest true "Product price"
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/{id}/items [post]
func (h *PriceListHandler) AddItem(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	var req procurementapp.PriceListItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.priceListService.AddItem(c.Request.Context(), tenantID, priceListID, req))
}

// UpdateItem godoc
// @ID           updatePriceListItem
// @Summary      Change a product price
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body procurementapp.UpdatePriceListItemRequest true "Product price"
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/{id}/items/{product_id} [put]
func (h *PriceListHandler) UpdateItem(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "product_id", "product")
	if !ok {
		return
	}
	var req procurementapp.UpdatePriceListItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.priceListService.UpdateItem(c.Request.Context(), tenantID, priceListID, productID, req))
}

// RemoveItem godoc
// @ID           removePriceListItem
// @Summary      Remove a product price
// @Tags         price-lists
// @Produce      json
// @Param        id path string true "Price list ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.PriceListResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /price-lists/{id}/items/{product_id} [delete]
func (h *PriceListHandler) RemoveItem(c *gin.Context) {
	tenantID, priceListID, ok := h.priceListTarget(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "product_id", "product")
	if !ok {
		return
	}
	h.respond(c)(h.priceListService.RemoveItem(c.Request.Context(), tenantID, priceListID, productID))
}

func (h *PriceListHandler) priceListTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	priceListID, ok := h.pathUUID(c, "id", "price list")
	return tenantID, priceListID, ok
}

func (h *PriceListHandler) respond(c *gin.Context) func(*procurementapp.PriceListResponse, error) {
	return func(priceList *procurementapp.PriceListResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, priceList)
	}
}
