package procurement

import (
	"time"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Price List DTOs ====================

// CreatePriceListRequest represents a request to create a supplier price list.
// An empty currency takes the supplier's invoicing currency.
type CreatePriceListRequest struct {
	SupplierID    uuid.UUID              `json:"supplier_id" binding:"required"`
	Code          string                 `json:"code" binding:"required,max=50,code"`
	Name          string                 `json:"name" binding:"required,min=1,max=200"`
	Currency      string                 `json:"currency" binding:"omitempty,currency"`
	EffectiveFrom time.Time              `json:"effective_from" binding:"required"`
	EffectiveTo   *time.Time             `json:"effective_to"`
	Notes         string                 `json:"notes" binding:"max=2000"`
	Items         []PriceListItemRequest `json:"items" binding:"dive"`
}

// UpdatePriceListRequest represents a request to rename a list or change its notes
type UpdatePriceListRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

// PriceListItemRequest represents the price of one product
type PriceListItemRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	ProductCode  string          `json:"product_code" binding:"max=50"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	LeadTimeDays int             `json:"lead_time_days" binding:"min=0,max=365"`
}

// UpdatePriceListItemRequest represents new terms for an existing price
type UpdatePriceListItemRequest struct {
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	LeadTimeDays int             `json:"lead_time_days" binding:"min=0,max=365"`
}

// ChangeEffectivePeriodRequest represents a new validity window
type ChangeEffectivePeriodRequest struct {
	EffectiveFrom time.Time  `json:"effective_from" binding:"required"`
	EffectiveTo   *time.Time `json:"effective_to"`
}

// PriceListFilter represents filter options for price list queries
type PriceListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	IsActive   *bool      `form:"is_active"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteRequest asks for the price of a product from a supplier on a date
type QuoteRequest struct {
	SupplierID uuid.UUID       `form:"supplier_id" binding:"required"`
	ProductID  uuid.UUID       `form:"product_id" binding:"required"`
	Quantity   decimal.Decimal `form:"quantity" binding:"required"`
	Date       *time.Time      `form:"date" time_format:"2006-01-02"`
}

// PriceListResponse represents a price list in API responses
type PriceListResponse struct {
	ID            uuid.UUID               `json:"id"`
	TenantID      uuid.UUID               `json:"tenant_id"`
	SupplierID    uuid.UUID               `json:"supplier_id"`
	Code          string                  `json:"code"`
	Name          string                  `json:"name"`
	Currency      string                  `json:"currency"`
	EffectiveFrom time.Time               `json:"effective_from"`
	EffectiveTo   *time.Time              `json:"effective_to,omitempty"`
	IsActive      bool                    `json:"is_active"`
	IsEffective   bool                    `json:"is_effective"`
	Notes         string                  `json:"notes,omitempty"`
	Items         []PriceListItemResponse `json:"items"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Version       int                     `json:"version"`
}

// PriceListItemResponse represents one price on a list
type PriceListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// PriceQuoteResponse is the price a supplier charges for a product
type PriceQuoteResponse struct {
	PriceListID      uuid.UUID       `json:"price_list_id"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	MinQuantity      decimal.Decimal `json:"min_quantity"`
	LeadTimeDays     int             `json:"lead_time_days"`
	Currency         string          `json:"currency"`
	ExpectedDelivery time.Time       `json:"expected_delivery"`
}

// ToPriceListResponse converts a domain price list to response DTO
func ToPriceListResponse(p *procurement.SupplierPriceList) PriceListResponse {
	items := make([]PriceListItemResponse, len(p.Items))
	for i := range p.Items {
		item := &p.Items[i]
		items[i] = PriceListItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductCode:  item.ProductCode,
			UnitPrice:    item.UnitPrice,
			MinQuantity:  item.MinQuantity,
			LeadTimeDays: item.LeadTimeDays,
		}
	}
	return PriceListResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		SupplierID:    p.SupplierID,
		Code:          p.Code,
		Name:          p.Name,
		Currency:      string(p.Currency),
		EffectiveFrom: p.EffectiveFrom,
		EffectiveTo:   p.EffectiveTo,
		IsActive:      p.IsActive,
		IsEffective:   p.IsEffectiveOn(time.Now()),
		Notes:         p.Notes,
		Items:         items,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToPriceListResponses converts a slice of domain price lists
func ToPriceListResponses(lists []procurement.SupplierPriceList) []PriceListResponse {
	responses := make([]PriceListResponse, len(lists))
	for i := range lists {
		responses[i] = ToPriceListResponse(&lists[i])
	}
	return responses
}

// ToPriceQuoteResponse converts a domain quote priced for orderDate
func ToPriceQuoteResponse(q *procurement.PriceQuote, orderDate time.Time) PriceQuoteResponse {
	return PriceQuoteResponse{
		PriceListID:      q.PriceListID,
		SupplierID:       q.SupplierID,
		ProductID:        q.ProductID,
		UnitPrice:        q.UnitPrice,
		MinQuantity:      q.MinQuantity,
		LeadTimeDays:     q.LeadTimeDays,
		Currency:         string(q.Currency),
		ExpectedDelivery: q.ExpectedDelivery(orderDate),
	}
}
