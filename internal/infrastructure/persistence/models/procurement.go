package models

import (
	"time"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
// Totals are not stored; they are derived from the items on load.
type PurchaseOrderModel struct {
	TenantAggregateModel
	OrderNumber          string                          `gorm:"type:varchar(50);not null;index"`
	SupplierID           uuid.UUID                       `gorm:"type:uuid;not null;index"`
	SupplierName         string                          `gorm:"type:varchar(200);not null"`
	Status               procurement.PurchaseOrderStatus `gorm:"type:varchar(30);not null;default:'DRAFT';index"`
	Currency             valueobject.Currency            `gorm:"type:varchar(3);not null"`
	OrderDate            time.Time                       `gorm:"not null"`
	ExpectedDeliveryDate *time.Time
	PaymentTerms         string                     `gorm:"type:varchar(100)"`
	Notes                string                     `gorm:"type:text"`
	Items                []PurchaseOrderItemModel   `gorm:"foreignKey:OrderID;references:ID"`
	SubmittedAt          *time.Time
	SubmittedBy          *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt           *time.Time
	ApprovedBy           *uuid.UUID `gorm:"type:uuid"`
	RejectionReason      string     `gorm:"type:varchar(500)"`
	SentAt               *time.Time
	AcknowledgedAt       *time.Time
	SupplierReference    string `gorm:"type:varchar(100)"`
	ReceivedAt           *time.Time
	CancelledAt          *time.Time
	CancelReason         string                          `gorm:"type:varchar(500)"`
	HoldReason           string                          `gorm:"type:varchar(500)"`
	HeldFromStatus       procurement.PurchaseOrderStatus `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	order := &procurement.PurchaseOrder{
		TenantAggregateRoot:  m.ToDomainTenantAggregateRoot(),
		OrderNumber:          m.OrderNumber,
		SupplierID:           m.SupplierID,
		SupplierName:         m.SupplierName,
		Status:               m.Status,
		Currency:             m.Currency,
		OrderDate:            m.OrderDate,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		PaymentTerms:         m.PaymentTerms,
		Notes:                m.Notes,
		SubmittedAt:          m.SubmittedAt,
		SubmittedBy:          m.SubmittedBy,
		ApprovedAt:           m.ApprovedAt,
		ApprovedBy:           m.ApprovedBy,
		RejectionReason:      m.RejectionReason,
		SentAt:               m.SentAt,
		AcknowledgedAt:       m.AcknowledgedAt,
		SupplierReference:    m.SupplierReference,
		ReceivedAt:           m.ReceivedAt,
		CancelledAt:          m.CancelledAt,
		CancelReason:         m.CancelReason,
		HoldReason:           m.HoldReason,
		HeldFromStatus:       m.HeldFromStatus,
		Items:                make([]procurement.PurchaseOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		order.Items[i] = m.Items[i].ToDomain()
	}
	return order
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain PurchaseOrder
func PurchaseOrderModelFromDomain(o *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber:          o.OrderNumber,
		SupplierID:           o.SupplierID,
		SupplierName:         o.SupplierName,
		Status:               o.Status,
		Currency:             o.Currency,
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		PaymentTerms:         o.PaymentTerms,
		Notes:                o.Notes,
		SubmittedAt:          o.SubmittedAt,
		SubmittedBy:          o.SubmittedBy,
		ApprovedAt:           o.ApprovedAt,
		ApprovedBy:           o.ApprovedBy,
		RejectionReason:      o.RejectionReason,
		SentAt:               o.SentAt,
		AcknowledgedAt:       o.AcknowledgedAt,
		SupplierReference:    o.SupplierReference,
		ReceivedAt:           o.ReceivedAt,
		CancelledAt:          o.CancelledAt,
		CancelReason:         o.CancelReason,
		HoldReason:           o.HoldReason,
		HeldFromStatus:       o.HeldFromStatus,
		Items:                make([]PurchaseOrderItemModel, len(o.Items)),
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	for i := range o.Items {
		m.Items[i] = PurchaseOrderItemModelFromDomain(&o.Items[i])
	}
	return m
}

// PurchaseOrderItemModel is the persistence model for a purchase order line
type PurchaseOrderItemModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode          string          `gorm:"type:varchar(50)"`
	ProductName          string          `gorm:"type:varchar(200);not null"`
	Unit                 string          `gorm:"type:varchar(20);not null"`
	Quantity             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate              decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	DiscountPercent      decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	ReceivedQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpectedDeliveryDate *time.Time
	PriceListID          *uuid.UUID `gorm:"type:uuid"`
	Remark               string     `gorm:"type:varchar(500)"`
	CreatedAt            time.Time  `gorm:"not null"`
	UpdatedAt            time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem
func (m *PurchaseOrderItemModel) ToDomain() procurement.PurchaseOrderItem {
	return procurement.PurchaseOrderItem{
		ID:                   m.ID,
		OrderID:              m.OrderID,
		ProductID:            m.ProductID,
		ProductCode:          m.ProductCode,
		ProductName:          m.ProductName,
		Unit:                 m.Unit,
		Quantity:             m.Quantity,
		UnitPrice:            m.UnitPrice,
		TaxRate:              m.TaxRate,
		DiscountPercent:      m.DiscountPercent,
		ReceivedQuantity:     m.ReceivedQuantity,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		PriceListID:          m.PriceListID,
		Remark:               m.Remark,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// PurchaseOrderItemModelFromDomain creates a persistence model from a domain PurchaseOrderItem
func PurchaseOrderItemModelFromDomain(i *procurement.PurchaseOrderItem) PurchaseOrderItemModel {
	return PurchaseOrderItemModel{
		ID:                   i.ID,
		OrderID:              i.OrderID,
		ProductID:            i.ProductID,
		ProductCode:          i.ProductCode,
		ProductName:          i.ProductName,
		Unit:                 i.Unit,
		Quantity:             i.Quantity,
		UnitPrice:            i.UnitPrice,
		TaxRate:              i.TaxRate,
		DiscountPercent:      i.DiscountPercent,
		ReceivedQuantity:     i.ReceivedQuantity,
		ExpectedDeliveryDate: i.ExpectedDeliveryDate,
		PriceListID:          i.PriceListID,
		Remark:               i.Remark,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
}

// SupplierPriceListModel is the persistence model for the SupplierPriceList aggregate root
type SupplierPriceListModel struct {
	TenantAggregateModel
	SupplierID    uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Code          string                       `gorm:"type:varchar(50);not null;index"`
	Name          string                       `gorm:"type:varchar(200);not null"`
	Currency      valueobject.Currency         `gorm:"type:varchar(3);not null"`
	EffectiveFrom time.Time                    `gorm:"not null"`
	EffectiveTo   *time.Time                   `gorm:""`
	IsActive      bool                         `gorm:"not null;default:true"`
	Notes         string                       `gorm:"type:text"`
	Items         []SupplierPriceListItemModel `gorm:"foreignKey:PriceListID;references:ID"`
}

// TableName returns the table name for GORM
func (SupplierPriceListModel) TableName() string {
	return "supplier_price_lists"
}

// ToDomain converts the persistence model to a domain SupplierPriceList
func (m *SupplierPriceListModel) ToDomain() *procurement.SupplierPriceList {
	pl := &procurement.SupplierPriceList{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SupplierID:          m.SupplierID,
		Code:                m.Code,
		Name:                m.Name,
		Currency:            m.Currency,
		EffectiveFrom:       m.EffectiveFrom,
		EffectiveTo:         m.EffectiveTo,
		IsActive:            m.IsActive,
		Notes:               m.Notes,
		Items:               make([]procurement.SupplierPriceListItem, len(m.Items)),
	}
	for i, item := range m.Items {
		pl.Items[i] = procurement.SupplierPriceListItem{
			ID:           item.ID,
			PriceListID:  item.PriceListID,
			ProductID:    item.ProductID,
			ProductCode:  item.ProductCode,
			UnitPrice:    item.UnitPrice,
			MinQuantity:  item.MinQuantity,
			LeadTimeDays: item.LeadTimeDays,
			Remark:       item.Remark,
			CreatedAt:    item.CreatedAt,
			UpdatedAt:    item.UpdatedAt,
		}
	}
	return pl
}

// SupplierPriceListModelFromDomain creates a persistence model from a domain SupplierPriceList
func SupplierPriceListModelFromDomain(p *procurement.SupplierPriceList) *SupplierPriceListModel {
	m := &SupplierPriceListModel{
		SupplierID:    p.SupplierID,
		Code:          p.Code,
		Name:          p.Name,
		Currency:      p.Currency,
		EffectiveFrom: p.EffectiveFrom,
		EffectiveTo:   p.EffectiveTo,
		IsActive:      p.IsActive,
		Notes:         p.Notes,
		Items:         make([]SupplierPriceListItemModel, len(p.Items)),
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	for i, item := range p.Items {
		m.Items[i] = SupplierPriceListItemModel{
			ID:           item.ID,
			PriceListID:  p.ID,
			ProductID:    item.ProductID,
			ProductCode:  item.ProductCode,
			UnitPrice:    item.UnitPrice,
			MinQuantity:  item.MinQuantity,
			LeadTimeDays: item.LeadTimeDays,
			Remark:       item.Remark,
			CreatedAt:    item.CreatedAt,
			UpdatedAt:    item.UpdatedAt,
		}
	}
	return m
}

// SupplierPriceListItemModel is the persistence model for one price on a list
type SupplierPriceListItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	PriceListID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_item_product,priority:1"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_item_product,priority:2"`
	ProductCode  string          `gorm:"type:varchar(50)"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	LeadTimeDays int             `gorm:"not null;default:0"`
	Remark       string          `gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierPriceListItemModel) TableName() string {
	return "supplier_price_list_items"
}
