package procurement

import (
	"time"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order.
// Currency, payment terms and delivery date default from the supplier.
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID                     `json:"supplier_id" binding:"required"`
	Currency             string                        `json:"currency" binding:"omitempty,currency"`
	OrderDate            *time.Time                    `json:"order_date"`
	ExpectedDeliveryDate *time.Time                    `json:"expected_delivery_date"`
	PaymentTerms         string                        `json:"payment_terms" binding:"max=50"`
	Notes                string                        `json:"notes" binding:"max=2000"`
	Items                []AddPurchaseOrderItemRequest `json:"items" binding:"dive"`
	CreatedBy            *uuid.UUID                    `json:"-"`
}

// AddPurchaseOrderItemRequest represents a request to add a line to a draft order.
// A nil unit price is filled from the supplier's effective price list.
type AddPurchaseOrderItemRequest struct {
	ProductID            uuid.UUID        `json:"product_id" binding:"required"`
	ProductCode          string           `json:"product_code" binding:"max=50"`
	ProductName          string           `json:"product_name" binding:"required,min=1,max=200"`
	Unit                 string           `json:"unit" binding:"required,min=1,max=20"`
	Quantity             decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	TaxRate              *decimal.Decimal `json:"tax_rate"`
	DiscountPercent      *decimal.Decimal `json:"discount_percent"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Remark               string           `json:"remark" binding:"max=500"`
}

// UpdatePurchaseOrderItemRequest represents a request to change a draft line
type UpdatePurchaseOrderItemRequest struct {
	Quantity             *decimal.Decimal `json:"quantity"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	TaxRate              *decimal.Decimal `json:"tax_rate"`
	DiscountPercent      *decimal.Decimal `json:"discount_percent"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Remark               *string          `json:"remark" binding:"omitempty,max=500"`
}

// UpdatePurchaseOrderRequest represents a request to change the header of a draft order
type UpdatePurchaseOrderRequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	PaymentTerms         *string    `json:"payment_terms" binding:"omitempty,max=50"`
	Notes                *string    `json:"notes" binding:"omitempty,max=2000"`
}

// RejectPurchaseOrderRequest represents a request to send a submitted order back to draft
type RejectPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// AcknowledgePurchaseOrderRequest represents the supplier's confirmation
type AcknowledgePurchaseOrderRequest struct {
	SupplierReference string `json:"supplier_reference" binding:"max=100"`
}

// ReceiveItemInput represents a single product quantity to receive
type ReceiveItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceivePurchaseOrderRequest represents a goods receipt against an order
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemInput `json:"items" binding:"required,min=1,dive"`
}

// HoldPurchaseOrderRequest represents a request to put an order on hold
type HoldPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CancelPurchaseOrderRequest represents a request to cancel a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status"`
	Statuses   []string   `form:"statuses"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	TenantID             uuid.UUID                   `json:"tenant_id"`
	OrderNumber          string                      `json:"order_number"`
	SupplierID           uuid.UUID                   `json:"supplier_id"`
	SupplierName         string                      `json:"supplier_name"`
	Status               string                      `json:"status"`
	Currency             string                      `json:"currency"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	PaymentTerms         string                      `json:"payment_terms,omitempty"`
	Notes                string                      `json:"notes,omitempty"`
	Items                []PurchaseOrderItemResponse `json:"items"`
	ItemCount            int                         `json:"item_count"`
	TotalQuantity        decimal.Decimal             `json:"total_quantity"`
	ReceivedQuantity     decimal.Decimal             `json:"received_quantity"`
	ReceiveProgress      decimal.Decimal             `json:"receive_progress"`
	Subtotal             decimal.Decimal             `json:"subtotal"`
	DiscountTotal        decimal.Decimal             `json:"discount_total"`
	TaxTotal             decimal.Decimal             `json:"tax_total"`
	GrandTotal           decimal.Decimal             `json:"grand_total"`
	ReceivedValue        decimal.Decimal             `json:"received_value"`
	IsOverdue            bool                        `json:"is_overdue"`
	SubmittedAt          *time.Time                  `json:"submitted_at,omitempty"`
	SubmittedBy          *uuid.UUID                  `json:"submitted_by,omitempty"`
	ApprovedAt           *time.Time                  `json:"approved_at,omitempty"`
	ApprovedBy           *uuid.UUID                  `json:"approved_by,omitempty"`
	RejectionReason      string                      `json:"rejection_reason,omitempty"`
	SentAt               *time.Time                  `json:"sent_at,omitempty"`
	AcknowledgedAt       *time.Time                  `json:"acknowledged_at,omitempty"`
	SupplierReference    string                      `json:"supplier_reference,omitempty"`
	ReceivedAt           *time.Time                  `json:"received_at,omitempty"`
	CancelledAt          *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason         string                      `json:"cancel_reason,omitempty"`
	HoldReason           string                      `json:"hold_reason,omitempty"`
	HeldFromStatus       string                      `json:"held_from_status,omitempty"`
	CreatedBy            *uuid.UUID                  `json:"created_by,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
	Version              int                         `json:"version"`
}

// PurchaseOrderListItemResponse represents a purchase order in list responses (less detail)
type PurchaseOrderListItemResponse struct {
	ID                   uuid.UUID       `json:"id"`
	OrderNumber          string          `json:"order_number"`
	SupplierID           uuid.UUID       `json:"supplier_id"`
	SupplierName         string          `json:"supplier_name"`
	Status               string          `json:"status"`
	Currency             string          `json:"currency"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	ItemCount            int             `json:"item_count"`
	GrandTotal           decimal.Decimal `json:"grand_total"`
	ReceiveProgress      decimal.Decimal `json:"receive_progress"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// PurchaseOrderItemResponse represents a purchase order line in API responses
type PurchaseOrderItemResponse struct {
	ID                   uuid.UUID       `json:"id"`
	ProductID            uuid.UUID       `json:"product_id"`
	ProductCode          string          `json:"product_code"`
	ProductName          string          `json:"product_name"`
	Unit                 string          `json:"unit"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	DiscountPercent      decimal.Decimal `json:"discount_percent"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	LineTotal            decimal.Decimal `json:"line_total"`
	ReceivedQuantity     decimal.Decimal `json:"received_quantity"`
	RemainingQuantity    decimal.Decimal `json:"remaining_quantity"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	PriceListID          *uuid.UUID      `json:"price_list_id,omitempty"`
	Remark               string          `json:"remark,omitempty"`
}

// ReceiveResultResponse represents the result of a receive operation
type ReceiveResultResponse struct {
	Order           PurchaseOrderResponse          `json:"order"`
	ReceivedItems   []procurement.ReceivedLineInfo `json:"received_items"`
	IsFullyReceived bool                           `json:"is_fully_received"`
}

// PurchaseOrderStatusSummary counts a tenant's orders per status
type PurchaseOrderStatusSummary struct {
	ByStatus map[string]int64 `json:"by_status"`
	Open     int64            `json:"open"`
	Total    int64            `json:"total"`
}

// ToPurchaseOrderResponse converts domain PurchaseOrder to response DTO
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}
	totals := order.Totals()

	return PurchaseOrderResponse{
		ID:                   order.ID,
		TenantID:             order.TenantID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		SupplierName:         order.SupplierName,
		Status:               string(order.Status),
		Currency:             string(order.Currency),
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		PaymentTerms:         order.PaymentTerms,
		Notes:                order.Notes,
		Items:                items,
		ItemCount:            order.ItemCount(),
		TotalQuantity:        order.TotalQuantity(),
		ReceivedQuantity:     order.TotalReceivedQuantity(),
		ReceiveProgress:      order.ReceiveProgress(),
		Subtotal:             totals.Subtotal.Amount(),
		DiscountTotal:        totals.DiscountTotal.Amount(),
		TaxTotal:             totals.TaxTotal.Amount(),
		GrandTotal:           totals.GrandTotal.Amount(),
		ReceivedValue:        order.ReceivedValue().Amount(),
		IsOverdue:            order.IsOverdue(time.Now()),
		SubmittedAt:          order.SubmittedAt,
		SubmittedBy:          order.SubmittedBy,
		ApprovedAt:           order.ApprovedAt,
		ApprovedBy:           order.ApprovedBy,
		RejectionReason:      order.RejectionReason,
		SentAt:               order.SentAt,
		AcknowledgedAt:       order.AcknowledgedAt,
		SupplierReference:    order.SupplierReference,
		ReceivedAt:           order.ReceivedAt,
		CancelledAt:          order.CancelledAt,
		CancelReason:         order.CancelReason,
		HoldReason:           order.HoldReason,
		HeldFromStatus:       string(order.HeldFromStatus),
		CreatedBy:            order.GetCreatedBy(),
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
		Version:              order.Version,
	}
}

// ToPurchaseOrderListItemResponse converts domain PurchaseOrder to list response DTO
func ToPurchaseOrderListItemResponse(order *procurement.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		SupplierName:         order.SupplierName,
		Status:               string(order.Status),
		Currency:             string(order.Currency),
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		ItemCount:            order.ItemCount(),
		GrandTotal:           order.Totals().GrandTotal.Amount(),
		ReceiveProgress:      order.ReceiveProgress(),
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of domain orders to list responses
func ToPurchaseOrderListItemResponses(orders []procurement.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(&orders[i])
	}
	return responses
}

// ToPurchaseOrderItemResponse converts domain PurchaseOrderItem to response DTO
func ToPurchaseOrderItemResponse(item *procurement.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:                   item.ID,
		ProductID:            item.ProductID,
		ProductCode:          item.ProductCode,
		ProductName:          item.ProductName,
		Unit:                 item.Unit,
		Quantity:             item.Quantity,
		UnitPrice:            item.UnitPrice,
		TaxRate:              item.TaxRate,
		DiscountPercent:      item.DiscountPercent,
		Subtotal:             item.Subtotal(),
		DiscountAmount:       item.DiscountAmount(),
		TaxAmount:            item.TaxAmount(),
		LineTotal:            item.LineTotal(),
		ReceivedQuantity:     item.ReceivedQuantity,
		RemainingQuantity:    item.RemainingQuantity(),
		ExpectedDeliveryDate: item.ExpectedDeliveryDate,
		PriceListID:          item.PriceListID,
		Remark:               item.Remark,
	}
}
