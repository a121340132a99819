package router

import (
	"github.com/erp/procurement/internal/infrastructure/auth"
	"github.com/erp/procurement/internal/interfaces/http/handler"
	"github.com/erp/procurement/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the API handlers mounted by RegisterProcurementRoutes
type Handlers struct {
	PurchaseOrders *handler.PurchaseOrderHandler
	Suppliers      *handler.SupplierHandler
	PriceLists     *handler.PriceListHandler
	// Outbox is optional; the operator routes are skipped when nil
	Outbox *handler.OutboxHandler
}

// RouteOptions carries the per-route guards
type RouteOptions struct {
	// Permissions guards write routes; nil leaves them open
	Permissions *middleware.PermissionGuard
	// Idempotency runs in front of create endpoints when set
	Idempotency gin.HandlerFunc
}

func (o RouteOptions) require(permissions ...string) []gin.HandlerFunc {
	if o.Permissions == nil {
		return nil
	}
	return []gin.HandlerFunc{o.Permissions.Require(permissions...)}
}

func (o RouteOptions) create(permissions ...string) []gin.HandlerFunc {
	chain := o.require(permissions...)
	if o.Idempotency != nil {
		chain = append(chain, o.Idempotency)
	}
	return chain
}

func with(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc{}, guards...), h)
}

// RegisterProcurementRoutes adds the purchase order, supplier and price list
// groups to the router, plus the outbox operator routes when configured.
func RegisterProcurementRoutes(r *Router, h Handlers, opts RouteOptions) {
	r.Register(purchaseOrderRoutes(h.PurchaseOrders, opts))
	r.Register(supplierRoutes(h.Suppliers, opts))
	r.Register(priceListRoutes(h.PriceLists, opts))
	if h.Outbox != nil {
		r.Register(outboxRoutes(h.Outbox, opts))
	}
}

func purchaseOrderRoutes(h *handler.PurchaseOrderHandler, opts RouteOptions) *DomainGroup {
	write := opts.require(auth.PermissionPurchaseOrderWrite)
	approve := opts.require(auth.PermissionPurchaseOrderApprove)
	receive := opts.require(auth.PermissionPurchaseOrderReceive)

	g := NewDomainGroup("purchase-orders", "/purchase-orders")
	g.POST("", with(opts.create(auth.PermissionPurchaseOrderWrite), h.Create)...)
	g.GET("", h.List)
	g.GET("/stats/summary", h.GetStatusSummary)
	g.GET("/number/:order_number", h.GetByOrderNumber)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", with(write, h.Update)...)
	g.DELETE("/:id", with(write, h.Delete)...)

	g.POST("/:id/items", with(write, h.AddItem)...)
	g.PUT("/:id/items/:item_id", with(write, h.UpdateItem)...)
	g.DELETE("/:id/items/:item_id", with(write, h.RemoveItem)...)

	g.POST("/:id/submit", with(write, h.Submit)...)
	g.POST("/:id/approve", with(approve, h.Approve)...)
	g.POST("/:id/reject", with(approve, h.Reject)...)
	g.POST("/:id/send", with(write, h.MarkSent)...)
	g.POST("/:id/acknowledge", with(write, h.Acknowledge)...)
	g.POST("/:id/receive", with(receive, h.Receive)...)
	g.POST("/:id/hold", with(approve, h.Hold)...)
	g.POST("/:id/release", with(approve, h.Release)...)
	g.POST("/:id/cancel", with(write, h.Cancel)...)
	return g
}

func supplierRoutes(h *handler.SupplierHandler, opts RouteOptions) *DomainGroup {
	write := opts.require(auth.PermissionSupplierWrite)
	blacklist := opts.require(auth.PermissionSupplierBlacklist)

	g := NewDomainGroup("suppliers", "/suppliers")
	g.POST("", with(opts.create(auth.PermissionSupplierWrite), h.Create)...)
	g.GET("", h.List)
	g.GET("/code/:code", h.GetByCode)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", with(write, h.Update)...)
	g.DELETE("/:id", with(write, h.Delete)...)
	g.PUT("/:id/contact", with(write, h.UpdateContact)...)
	g.PUT("/:id/financial", with(write, h.UpdateFinancial)...)
	g.PUT("/:id/operational", with(write, h.UpdateOperational)...)

	g.POST("/:id/activate", with(write, h.Activate)...)
	g.POST("/:id/deactivate", with(write, h.Deactivate)...)
	g.POST("/:id/hold", with(write, h.PutOnHold)...)
	g.POST("/:id/blacklist", with(blacklist, h.Blacklist)...)
	g.POST("/:id/reinstate", with(blacklist, h.Reinstate)...)
	return g
}

func priceListRoutes(h *handler.PriceListHandler, opts RouteOptions) *DomainGroup {
	write := opts.require(auth.PermissionPriceListWrite)

	g := NewDomainGroup("price-lists", "/price-lists")
	g.POST("", with(opts.create(auth.PermissionPriceListWrite), h.Create)...)
	g.GET("", h.List)
	g.GET("/quote", h.Quote)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", with(write, h.Update)...)
	g.PUT("/:id/period", with(write, h.ChangePeriod)...)
	g.POST("/:id/activate", with(write, h.Activate)...)
	g.POST("/:id/deactivate", with(write, h.Deactivate)...)
	g.DELETE("/:id", with(write, h.Delete)...)

	g.POST("/:id/items", with(write, h.AddItem)...)
	g.PUT("/:id/items/:product_id", with(write, h.UpdateItem)...)
	g.DELETE("/:id/items/:product_id", with(write, h.RemoveItem)...)
	return g
}

// Every outbox route exposes events of all tenants, reads included
func outboxRoutes(h *handler.OutboxHandler, opts RouteOptions) *DomainGroup {
	admin := opts.require(auth.PermissionOutboxAdmin)

	g := NewDomainGroup("outbox", "/system/outbox")
	g.GET("/dead", with(admin, h.ListDead)...)
	g.POST("/dead/retry-all", with(admin, h.RetryAll)...)
	g.GET("/stats", with(admin, h.Stats)...)
	g.GET("/:id", with(admin, h.GetEntry)...)
	g.POST("/:id/retry", with(admin, h.Retry)...)
	return g
}
