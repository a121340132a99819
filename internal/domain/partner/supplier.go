package partner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	supplierCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	emailPattern        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern        = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive      SupplierStatus = "ACTIVE"
	SupplierStatusInactive    SupplierStatus = "INACTIVE"
	SupplierStatusOnHold      SupplierStatus = "ON_HOLD"
	SupplierStatusBlacklisted SupplierStatus = "BLACKLISTED"
)

// IsValid checks if the status is known
func (s SupplierStatus) IsValid() bool {
	switch s {
	case SupplierStatusActive, SupplierStatusInactive, SupplierStatusOnHold, SupplierStatusBlacklisted:
		return true
	}
	return false
}

// String returns the string representation of SupplierStatus
func (s SupplierStatus) String() string {
	return string(s)
}

// Which block of supplier data an update touched
const (
	SupplierBlockGeneral     = "general"
	SupplierBlockContact     = "contact"
	SupplierBlockFinancial   = "financial"
	SupplierBlockOperational = "operational"
)

// ContactInfo is how to reach the supplier
type ContactInfo struct {
	ContactName string
	Email       string
	Phone       string
	Website     string
	Address     string
	City        string
	Country     string
	PostalCode  string
}

// FinancialInfo holds invoicing and payment terms
type FinancialInfo struct {
	TaxID           string
	Currency        valueobject.Currency
	PaymentTermDays int
	CreditLimit     decimal.Decimal
	BankName        string
	BankAccount     string
}

// OperationalInfo holds the terms used when ordering from the supplier
type OperationalInfo struct {
	DefaultLeadTimeDays int
	MinimumOrderAmount  decimal.Decimal
	Rating              int
	IsPreferred         bool
}

// Supplier is the aggregate root for a vendor goods are purchased from
type Supplier struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Status       SupplierStatus
	StatusReason string
	Contact      ContactInfo
	Financial    FinancialInfo
	Operational  OperationalInfo
	Notes        string
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	code = strings.TrimSpace(code)
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                strings.TrimSpace(name),
		Status:              SupplierStatusActive,
		Financial: FinancialInfo{
			Currency:    valueobject.DefaultCurrency,
			CreditLimit: decimal.Zero,
		},
		Operational: OperationalInfo{
			MinimumOrderAmount: decimal.Zero,
		},
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Rename changes the supplier's display name
func (s *Supplier) Rename(name string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Touch()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s, SupplierBlockGeneral))
	return nil
}

// SetNotes sets free-form notes
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.Touch()
}

// UpdateContactInfo replaces the contact block
func (s *Supplier) UpdateContactInfo(info ContactInfo) error {
	if len(info.ContactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if info.Email != "" {
		if len(info.Email) > 200 || !emailPattern.MatchString(info.Email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	if info.Phone != "" {
		if len(info.Phone) > 50 || !phonePattern.MatchString(info.Phone) {
			return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
		}
	}
	if len(info.Website) > 200 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 200 characters")
	}
	if len(info.Address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if len(info.City) > 100 || len(info.Country) > 100 {
		return shared.NewDomainError("INVALID_ADDRESS", "City and country cannot exceed 100 characters")
	}
	if len(info.PostalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}

	s.Contact = info
	s.Touch()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s, SupplierBlockContact))
	return nil
}

// UpdateFinancialInfo replaces the financial block. An empty currency keeps the default.
func (s *Supplier) UpdateFinancialInfo(info FinancialInfo) error {
	if len(info.TaxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}
	if info.Currency == "" {
		info.Currency = valueobject.DefaultCurrency
	}
	if !info.Currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", info.Currency))
	}
	if info.PaymentTermDays < 0 || info.PaymentTermDays > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment term days must be between 0 and 365")
	}
	if info.CreditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	if len(info.BankName) > 200 || len(info.BankAccount) > 100 {
		return shared.NewDomainError("INVALID_BANK_INFO", "Bank name or account is too long")
	}

	s.Financial = info
	s.Touch()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s, SupplierBlockFinancial))
	return nil
}

// UpdateOperationalInfo replaces the operational block
func (s *Supplier) UpdateOperationalInfo(info OperationalInfo) error {
	if info.DefaultLeadTimeDays < 0 || info.DefaultLeadTimeDays > 365 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must be between 0 and 365 days")
	}
	if info.MinimumOrderAmount.IsNegative() {
		return shared.NewDomainError("INVALID_MINIMUM_ORDER", "Minimum order amount cannot be negative")
	}
	if info.Rating < 0 || info.Rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}

	s.Operational = info
	s.Touch()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s, SupplierBlockOperational))
	return nil
}

func (s *Supplier) changeStatus(to SupplierStatus, reason string) {
	from := s.Status
	s.Status = to
	s.StatusReason = reason
	s.Touch()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, from, to, reason))
}

func (s *Supplier) invalidTransition(action string) error {
	return shared.NewDomainError("INVALID_STATE_TRANSITION",
		fmt.Sprintf("Cannot %s supplier in %s status", action, s.Status))
}

// Activate moves an inactive or held supplier back to ACTIVE
func (s *Supplier) Activate() error {
	if s.Status != SupplierStatusInactive && s.Status != SupplierStatusOnHold {
		return s.invalidTransition("activate")
	}
	s.changeStatus(SupplierStatusActive, "")
	return nil
}

// Deactivate retires an active or held supplier
func (s *Supplier) Deactivate() error {
	if s.Status != SupplierStatusActive && s.Status != SupplierStatusOnHold {
		return s.invalidTransition("deactivate")
	}
	s.changeStatus(SupplierStatusInactive, "")
	return nil
}

// PutOnHold temporarily stops new orders to an active supplier
func (s *Supplier) PutOnHold(reason string) error {
	if s.Status != SupplierStatusActive {
		return s.invalidTransition("hold")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Hold reason is required")
	}
	s.changeStatus(SupplierStatusOnHold, reason)
	return nil
}

// Blacklist bans the supplier
func (s *Supplier) Blacklist(reason string) error {
	if s.Status == SupplierStatusBlacklisted {
		return s.invalidTransition("blacklist")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Blacklist reason is required")
	}
	s.changeStatus(SupplierStatusBlacklisted, reason)
	return nil
}

// Reinstate lifts a ban. The supplier comes back INACTIVE and must be activated explicitly.
func (s *Supplier) Reinstate() error {
	if s.Status != SupplierStatusBlacklisted {
		return s.invalidTransition("reinstate")
	}
	s.changeStatus(SupplierStatusInactive, "")
	return nil
}

// CanReceiveOrders returns true if purchase orders may be placed with the supplier
func (s *Supplier) CanReceiveOrders() bool {
	return s.Status == SupplierStatusActive
}

// IsBlacklisted returns true if the supplier is banned
func (s *Supplier) IsBlacklisted() bool {
	return s.Status == SupplierStatusBlacklisted
}

// ExpectedDeliveryFrom returns orderDate plus the default lead time, or nil when none is set
func (s *Supplier) ExpectedDeliveryFrom(orderDate time.Time) *time.Time {
	if s.Operational.DefaultLeadTimeDays <= 0 {
		return nil
	}
	d := orderDate.AddDate(0, 0, s.Operational.DefaultLeadTimeDays)
	return &d
}

// PaymentTerms renders the payment term days the way they appear on an order, e.g. "NET30"
func (s *Supplier) PaymentTerms() string {
	if s.Financial.PaymentTermDays == 0 {
		return ""
	}
	return fmt.Sprintf("NET%d", s.Financial.PaymentTermDays)
}

// MeetsMinimumOrder checks an order amount against the supplier's minimum
func (s *Supplier) MeetsMinimumOrder(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(s.Operational.MinimumOrderAmount)
}

func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot exceed 50 characters")
	}
	if !supplierCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Supplier code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateSupplierName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return nil
}
