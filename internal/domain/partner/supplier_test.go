package partner

import (
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, code, de.Code)
}

func newTestSupplier(t *testing.T) *Supplier {
	t.Helper()
	s, err := NewSupplier(uuid.New(), "sup-001", "Acme Metals")
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestNewSupplier(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active supplier", func(t *testing.T) {
		s, err := NewSupplier(tenantID, "sup-001", " Acme Metals ")
		require.NoError(t, err)

		assert.Equal(t, "SUP-001", s.Code)
		assert.Equal(t, "Acme Metals", s.Name)
		assert.Equal(t, SupplierStatusActive, s.Status)
		assert.Equal(t, valueobject.DefaultCurrency, s.Financial.Currency)
		assert.True(t, s.CanReceiveOrders())

		events := s.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSupplierCreated, events[0].EventType())
	})

	t.Run("rejects bad code", func(t *testing.T) {
		_, err := NewSupplier(tenantID, "", "Acme")
		assertCode(t, err, "INVALID_CODE")
		_, err = NewSupplier(tenantID, "SUP 1", "Acme")
		assertCode(t, err, "INVALID_CODE")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSupplier(tenantID, "SUP1", "  ")
		assertCode(t, err, "INVALID_NAME")
	})
}

func TestSupplier_StatusTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   SupplierStatus
		action func(*Supplier) error
		to     SupplierStatus
		code   string
	}{
		{"activate inactive", SupplierStatusInactive, (*Supplier).Activate, SupplierStatusActive, ""},
		{"activate held", SupplierStatusOnHold, (*Supplier).Activate, SupplierStatusActive, ""},
		{"activate active", SupplierStatusActive, (*Supplier).Activate, "", "INVALID_STATE_TRANSITION"},
		{"activate blacklisted", SupplierStatusBlacklisted, (*Supplier).Activate, "", "INVALID_STATE_TRANSITION"},
		{"deactivate active", SupplierStatusActive, (*Supplier).Deactivate, SupplierStatusInactive, ""},
		{"deactivate held", SupplierStatusOnHold, (*Supplier).Deactivate, SupplierStatusInactive, ""},
		{"deactivate blacklisted", SupplierStatusBlacklisted, (*Supplier).Deactivate, "", "INVALID_STATE_TRANSITION"},
		{"hold active", SupplierStatusActive, func(s *Supplier) error { return s.PutOnHold("audit") }, SupplierStatusOnHold, ""},
		{"hold inactive", SupplierStatusInactive, func(s *Supplier) error { return s.PutOnHold("audit") }, "", "INVALID_STATE_TRANSITION"},
		{"blacklist held", SupplierStatusOnHold, func(s *Supplier) error { return s.Blacklist("fraud") }, SupplierStatusBlacklisted, ""},
		{"blacklist inactive", SupplierStatusInactive, func(s *Supplier) error { return s.Blacklist("fraud") }, SupplierStatusBlacklisted, ""},
		{"blacklist twice", SupplierStatusBlacklisted, func(s *Supplier) error { return s.Blacklist("fraud") }, "", "INVALID_STATE_TRANSITION"},
		{"reinstate", SupplierStatusBlacklisted, (*Supplier).Reinstate, SupplierStatusInactive, ""},
		{"reinstate active", SupplierStatusActive, (*Supplier).Reinstate, "", "INVALID_STATE_TRANSITION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSupplier(t)
			s.Status = tt.from
			err := tt.action(s)
			if tt.code != "" {
				assertCode(t, err, tt.code)
				assert.Equal(t, tt.from, s.Status)
				assert.Empty(t, s.GetDomainEvents())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, s.Status)

			events := s.GetDomainEvents()
			require.Len(t, events, 1)
			changed, ok := events[0].(*SupplierStatusChangedEvent)
			require.True(t, ok)
			assert.Equal(t, tt.from, changed.OldStatus)
			assert.Equal(t, tt.to, changed.NewStatus)
		})
	}
}

func TestSupplier_ReasonsRequired(t *testing.T) {
	s := newTestSupplier(t)
	assertCode(t, s.PutOnHold(" "), "INVALID_REASON")
	assertCode(t, s.Blacklist(""), "INVALID_REASON")

	require.NoError(t, s.Blacklist("counterfeit goods"))
	assert.Equal(t, "counterfeit goods", s.StatusReason)
	assert.False(t, s.CanReceiveOrders())
	evt := s.GetDomainEvents()[0].(*SupplierStatusChangedEvent)
	assert.True(t, evt.IsBlacklisting())
	assert.Equal(t, "counterfeit goods", evt.Reason)

	require.NoError(t, s.Reinstate())
	assert.Empty(t, s.StatusReason)
	assert.False(t, s.CanReceiveOrders())
}

func TestSupplier_UpdateBlocks(t *testing.T) {
	s := newTestSupplier(t)

	t.Run("contact", func(t *testing.T) {
		assertCode(t, s.UpdateContactInfo(ContactInfo{Email: "not-an-email"}), "INVALID_EMAIL")
		assertCode(t, s.UpdateContactInfo(ContactInfo{Phone: "call me"}), "INVALID_PHONE")

		require.NoError(t, s.UpdateContactInfo(ContactInfo{
			ContactName: "Jane Roe",
			Email:       "sales@acme.example",
			Phone:       "+1 (555) 010-2000",
			City:        "Springfield",
		}))
		assert.Equal(t, "sales@acme.example", s.Contact.Email)
	})

	t.Run("financial", func(t *testing.T) {
		assertCode(t, s.UpdateFinancialInfo(FinancialInfo{PaymentTermDays: 400}), "INVALID_PAYMENT_TERMS")
		assertCode(t, s.UpdateFinancialInfo(FinancialInfo{CreditLimit: decimal.NewFromInt(-1)}), "INVALID_CREDIT_LIMIT")
		assertCode(t, s.UpdateFinancialInfo(FinancialInfo{Currency: "XYZ"}), "INVALID_CURRENCY")

		require.NoError(t, s.UpdateFinancialInfo(FinancialInfo{Currency: valueobject.USD, PaymentTermDays: 30}))
		assert.Equal(t, valueobject.USD, s.Financial.Currency)
		assert.Equal(t, "NET30", s.PaymentTerms())
		assert.Equal(t, "Jane Roe", s.Contact.ContactName)
	})

	t.Run("operational", func(t *testing.T) {
		assertCode(t, s.UpdateOperationalInfo(OperationalInfo{Rating: 6}), "INVALID_RATING")
		assertCode(t, s.UpdateOperationalInfo(OperationalInfo{DefaultLeadTimeDays: -1}), "INVALID_LEAD_TIME")
		assertCode(t, s.UpdateOperationalInfo(OperationalInfo{MinimumOrderAmount: decimal.NewFromInt(-5)}), "INVALID_MINIMUM_ORDER")

		require.NoError(t, s.UpdateOperationalInfo(OperationalInfo{
			DefaultLeadTimeDays: 10,
			MinimumOrderAmount:  decimal.NewFromInt(500),
			Rating:              4,
			IsPreferred:         true,
		}))
		assert.True(t, s.MeetsMinimumOrder(decimal.NewFromInt(500)))
		assert.False(t, s.MeetsMinimumOrder(decimal.NewFromInt(499)))

		orderDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		expected := s.ExpectedDeliveryFrom(orderDate)
		require.NotNil(t, expected)
		assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), *expected)
	})

	var blocks []string
	for _, e := range s.GetDomainEvents() {
		blocks = append(blocks, e.(*SupplierUpdatedEvent).Block)
	}
	assert.Equal(t, []string{SupplierBlockContact, SupplierBlockFinancial, SupplierBlockOperational}, blocks)
}

func TestSupplier_Rename(t *testing.T) {
	s := newTestSupplier(t)
	require.NoError(t, s.Rename("Acme Steel"))
	assert.Equal(t, "Acme Steel", s.Name)
	assertCode(t, s.Rename(""), "INVALID_NAME")
	assert.Nil(t, s.ExpectedDeliveryFrom(time.Now()))
}
