package models

import (
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SupplierContactColumns maps partner.ContactInfo to contact_* columns
type SupplierContactColumns struct {
	Name       string `gorm:"type:varchar(100)"`
	Email      string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(50)"`
	Website    string `gorm:"type:varchar(200)"`
	Address    string `gorm:"type:varchar(500)"`
	City       string `gorm:"type:varchar(100)"`
	Country    string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
}

// SupplierModel is the persistence model for the Supplier aggregate root
type SupplierModel struct {
	TenantAggregateModel
	Code                string                 `gorm:"type:varchar(50);not null;index"`
	Name                string                 `gorm:"type:varchar(200);not null"`
	Status              partner.SupplierStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	StatusReason        string                 `gorm:"type:varchar(500)"`
	Contact             SupplierContactColumns `gorm:"embedded;embeddedPrefix:contact_"`
	TaxID               string                 `gorm:"type:varchar(50)"`
	Currency            valueobject.Currency   `gorm:"type:varchar(3);not null"`
	PaymentTermDays     int                    `gorm:"not null;default:0"`
	CreditLimit         decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	BankName            string                 `gorm:"type:varchar(200)"`
	BankAccount         string                 `gorm:"type:varchar(100)"`
	DefaultLeadTimeDays int                    `gorm:"not null;default:0"`
	MinimumOrderAmount  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Rating              int                    `gorm:"not null;default:0"`
	IsPreferred         bool                   `gorm:"not null;default:false"`
	Notes               string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Status:              m.Status,
		StatusReason:        m.StatusReason,
		Contact: partner.ContactInfo{
			ContactName: m.Contact.Name,
			Email:       m.Contact.Email,
			Phone:       m.Contact.Phone,
			Website:     m.Contact.Website,
			Address:     m.Contact.Address,
			City:        m.Contact.City,
			Country:     m.Contact.Country,
			PostalCode:  m.Contact.PostalCode,
		},
		Financial: partner.FinancialInfo{
			TaxID:           m.TaxID,
			Currency:        m.Currency,
			PaymentTermDays: m.PaymentTermDays,
			CreditLimit:     m.CreditLimit,
			BankName:        m.BankName,
			BankAccount:     m.BankAccount,
		},
		Operational: partner.OperationalInfo{
			DefaultLeadTimeDays: m.DefaultLeadTimeDays,
			MinimumOrderAmount:  m.MinimumOrderAmount,
			Rating:              m.Rating,
			IsPreferred:         m.IsPreferred,
		},
		Notes: m.Notes,
	}
}

// SupplierModelFromDomain creates a persistence model from a domain Supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Code:         s.Code,
		Name:         s.Name,
		Status:       s.Status,
		StatusReason: s.StatusReason,
		Contact: SupplierContactColumns{
			Name:       s.Contact.ContactName,
			Email:      s.Contact.Email,
			Phone:      s.Contact.Phone,
			Website:    s.Contact.Website,
			Address:    s.Contact.Address,
			City:       s.Contact.City,
			Country:    s.Contact.Country,
			PostalCode: s.Contact.PostalCode,
		},
		TaxID:               s.Financial.TaxID,
		Currency:            s.Financial.Currency,
		PaymentTermDays:     s.Financial.PaymentTermDays,
		CreditLimit:         s.Financial.CreditLimit,
		BankName:            s.Financial.BankName,
		BankAccount:         s.Financial.BankAccount,
		DefaultLeadTimeDays: s.Operational.DefaultLeadTimeDays,
		MinimumOrderAmount:  s.Operational.MinimumOrderAmount,
		Rating:              s.Operational.Rating,
		IsPreferred:         s.Operational.IsPreferred,
		Notes:               s.Notes,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}
