package handler

import (
	partnerapp "github.com/erp/procurement/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SupplierHandler handles supplier API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay guard key"
// @Param        request body partnerapp.CreateSupplierRequest true "Supplier"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	var req partnerapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetByID godoc
// @ID           getSupplierById
// @Summary      Get a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.supplierService.GetByID(c.Request.Context(), tenantID, supplierID))
}

// GetByCode godoc
// @ID           getSupplierByCode
// @Summary      Get a supplier by code
// @Tags         suppliers
// @Produce      json
// @Param        code path string true "Supplier code"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/code/{code} [get]
func (h *SupplierHandler) GetByCode(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	h.respond(c)(h.supplierService.GetByCode(c.Request.Context(), tenantID, c.Param("code")))
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        search query string false "Code, name, contact or email"
// @Param        status query string false "Status" Enums(ACTIVE, INACTIVE, ON_HOLD, BLACKLISTED)
// @Param        is_preferred query bool false "Preferred suppliers only"
// @Param        min_rating query int false "Minimum rating" minimum(0) maximum(5)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(name)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]partnerapp.SupplierListResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	var filter partnerapp.SupplierListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	suppliers, total, err := h.supplierService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Rename a supplier or change its notes
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.UpdateSupplierRequest true "Changes"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.supplierService.Update(c.Request.Context(), tenantID, supplierID, req))
}

// UpdateContact godoc
// @ID           updateSupplierContact
// @Summary      Replace the contact block
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.ContactInfoRequest true "Contact"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/contact [put]
func (h *SupplierHandler) UpdateContact(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	var req partnerapp.ContactInfoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.supplierService.UpdateContact(c.Request.Context(), tenantID, supplierID, req))
}

// UpdateFinancial godoc
// @ID           updateSupplierFinancial
// @Summary      Replace the financial block
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.FinancialInfoRequest true "Financial terms"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/financial [put]
func (h *SupplierHandler) UpdateFinancial(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	var req partnerapp.FinancialInfoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.supplierService.UpdateFinancial(c.Request.Context(), tenantID, supplierID, req))
}

// UpdateOperational godoc
// @ID           updateSupplierOperational
// @Summary      Replace the operational block
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.OperationalInfoRequest true "Operational terms"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/operational [put]
func (h *SupplierHandler) UpdateOperational(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	var req partnerapp.OperationalInfoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.supplierService.UpdateOperational(c.Request.Context(), tenantID, supplierID, req))
}

// Activate godoc
// @ID           activateSupplier
// @Summary      Activate a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/activate [post]
func (h *SupplierHandler) Activate(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.supplierService.Activate(c.Request.Context(), tenantID, supplierID))
}

// Deactivate godoc
// @ID           deactivateSupplier
// @Summary      Deactivate a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/deactivate [post]
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.supplierService.Deactivate(c.Request.Context(), tenantID, supplierID))
}

// PutOnHold godoc
// @ID           holdSupplier
// @Summary      Put a supplier on hold
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.SupplierStatusReasonRequest true "Reason"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/hold [post]
func (h *SupplierHandler) PutOnHold(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	var req partnerapp.SupplierStatusReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.supplierService.PutOnHold(c.Request.Context(), tenantID, supplierID, req))
}

// Blacklist godoc
// @ID           blacklistSupplier
// @Summary      Blacklist a supplier
// @Description  Open purchase orders of the supplier are put on hold asynchronously.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.SupplierStatusReasonRequest true "Reason"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/blacklist [post]
func (h *SupplierHandler) Blacklist(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	var req partnerapp.SupplierStatusReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.supplierService.Blacklist(c.Request.Context(), tenantID, supplierID, req))
}

// Reinstate godoc
// @ID           reinstateSupplier
// @Summary      Reinstate a blacklisted or held supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/reinstate [post]
func (h *SupplierHandler) Reinstate(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	h.respond(c)(h.supplierService.Reinstate(c.Request.Context(), tenantID, supplierID))
}

// Delete godoc
// @ID           deleteSupplier
// @Summary      Delete a supplier
// @Description  Refused while open purchase orders reference the supplier.
// @Tags         suppliers
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	tenantID, supplierID, ok := h.supplierTarget(c)
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), tenantID, supplierID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SupplierHandler) supplierTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	supplierID, ok := h.pathUUID(c, "id", "supplier")
	return tenantID, supplierID, ok
}

func (h *SupplierHandler) respond(c *gin.Context) func(*partnerapp.SupplierResponse, error) {
	return func(supplier *partnerapp.SupplierResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, supplier)
	}
}
