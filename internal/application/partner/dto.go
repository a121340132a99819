package partner

import (
	"time"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a new supplier.
// The optional blocks are applied right after creation.
type CreateSupplierRequest struct {
	Code        string                  `json:"code" binding:"required,max=50,code"`
	Name        string                  `json:"name" binding:"required,min=1,max=200"`
	Notes       string                  `json:"notes" binding:"max=2000"`
	Contact     *ContactInfoRequest     `json:"contact"`
	Financial   *FinancialInfoRequest   `json:"financial"`
	Operational *OperationalInfoRequest `json:"operational"`
}

// UpdateSupplierRequest represents a request to rename a supplier or change its notes
type UpdateSupplierRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

// ContactInfoRequest replaces the contact block
type ContactInfoRequest struct {
	ContactName string `json:"contact_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Website     string `json:"website" binding:"max=200"`
	Address     string `json:"address" binding:"max=500"`
	City        string `json:"city" binding:"max=100"`
	Country     string `json:"country" binding:"max=100"`
	PostalCode  string `json:"postal_code" binding:"max=20"`
}

// FinancialInfoRequest replaces the financial block
type FinancialInfoRequest struct {
	TaxID           string          `json:"tax_id" binding:"max=50"`
	Currency        string          `json:"currency" binding:"omitempty,currency"`
	PaymentTermDays int             `json:"payment_term_days" binding:"min=0,max=365"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	BankName        string          `json:"bank_name" binding:"max=200"`
	BankAccount     string          `json:"bank_account" binding:"max=100"`
}

// OperationalInfoRequest replaces the operational block
type OperationalInfoRequest struct {
	DefaultLeadTimeDays int             `json:"default_lead_time_days" binding:"min=0,max=365"`
	MinimumOrderAmount  decimal.Decimal `json:"minimum_order_amount"`
	Rating              int             `json:"rating" binding:"min=0,max=5"`
	IsPreferred         bool            `json:"is_preferred"`
}

// SupplierStatusReasonRequest carries the reason for a hold or a blacklisting
type SupplierStatusReasonRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SupplierListFilter represents filter options for supplier list
type SupplierListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE ON_HOLD BLACKLISTED"`
	IsPreferred *bool  `form:"is_preferred"`
	MinRating   *int   `form:"min_rating" binding:"omitempty,min=0,max=5"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContactInfoResponse is the contact block in API responses
type ContactInfoResponse struct {
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PostalCode  string `json:"postal_code"`
}

// FinancialInfoResponse is the financial block in API responses
type FinancialInfoResponse struct {
	TaxID           string          `json:"tax_id"`
	Currency        string          `json:"currency"`
	PaymentTermDays int             `json:"payment_term_days"`
	PaymentTerms    string          `json:"payment_terms,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	BankName        string          `json:"bank_name"`
	BankAccount     string          `json:"bank_account"`
}

// OperationalInfoResponse is the operational block in API responses
type OperationalInfoResponse struct {
	DefaultLeadTimeDays int             `json:"default_lead_time_days"`
	MinimumOrderAmount  decimal.Decimal `json:"minimum_order_amount"`
	Rating              int             `json:"rating"`
	IsPreferred         bool            `json:"is_preferred"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID               uuid.UUID               `json:"id"`
	TenantID         uuid.UUID               `json:"tenant_id"`
	Code             string                  `json:"code"`
	Name             string                  `json:"name"`
	Status           string                  `json:"status"`
	StatusReason     string                  `json:"status_reason,omitempty"`
	CanReceiveOrders bool                    `json:"can_receive_orders"`
	Contact          ContactInfoResponse     `json:"contact"`
	Financial        FinancialInfoResponse   `json:"financial"`
	Operational      OperationalInfoResponse `json:"operational"`
	Notes            string                  `json:"notes,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Version          int                     `json:"version"`
}

// SupplierListResponse represents a list item for suppliers
type SupplierListResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	City        string    `json:"city"`
	Currency    string    `json:"currency"`
	Rating      int       `json:"rating"`
	IsPreferred bool      `json:"is_preferred"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r ContactInfoRequest) toDomain() partner.ContactInfo {
	return partner.ContactInfo{
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Website:     r.Website,
		Address:     r.Address,
		City:        r.City,
		Country:     r.Country,
		PostalCode:  r.PostalCode,
	}
}

func (r OperationalInfoRequest) toDomain() partner.OperationalInfo {
	return partner.OperationalInfo{
		DefaultLeadTimeDays: r.DefaultLeadTimeDays,
		MinimumOrderAmount:  r.MinimumOrderAmount,
		Rating:              r.Rating,
		IsPreferred:         r.IsPreferred,
	}
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID,
		TenantID:         s.TenantID,
		Code:             s.Code,
		Name:             s.Name,
		Status:           string(s.Status),
		StatusReason:     s.StatusReason,
		CanReceiveOrders: s.CanReceiveOrders(),
		Contact: ContactInfoResponse{
			ContactName: s.Contact.ContactName,
			Email:       s.Contact.Email,
			Phone:       s.Contact.Phone,
			Website:     s.Contact.Website,
			Address:     s.Contact.Address,
			City:        s.Contact.City,
			Country:     s.Contact.Country,
			PostalCode:  s.Contact.PostalCode,
		},
		Financial: FinancialInfoResponse{
			TaxID:           s.Financial.TaxID,
			Currency:        string(s.Financial.Currency),
			PaymentTermDays: s.Financial.PaymentTermDays,
			PaymentTerms:    s.PaymentTerms(),
			CreditLimit:     s.Financial.CreditLimit,
			BankName:        s.Financial.BankName,
			BankAccount:     s.Financial.BankAccount,
		},
		Operational: OperationalInfoResponse{
			DefaultLeadTimeDays: s.Operational.DefaultLeadTimeDays,
			MinimumOrderAmount:  s.Operational.MinimumOrderAmount,
			Rating:              s.Operational.Rating,
			IsPreferred:         s.Operational.IsPreferred,
		},
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

// ToSupplierListResponse converts a domain Supplier to SupplierListResponse
func ToSupplierListResponse(s *partner.Supplier) SupplierListResponse {
	return SupplierListResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Status:      string(s.Status),
		ContactName: s.Contact.ContactName,
		Email:       s.Contact.Email,
		City:        s.Contact.City,
		Currency:    string(s.Financial.Currency),
		Rating:      s.Operational.Rating,
		IsPreferred: s.Operational.IsPreferred,
		CreatedAt:   s.CreatedAt,
	}
}

// ToSupplierListResponses converts a slice of domain Suppliers to SupplierListResponses
func ToSupplierListResponses(suppliers []partner.Supplier) []SupplierListResponse {
	responses := make([]SupplierListResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierListResponse(&suppliers[i])
	}
	return responses
}
