package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) SaveWithLockAndEvents(ctx context.Context, supplier *partner.Supplier, events []shared.DomainEvent) error {
	args := m.Called(ctx, supplier, events)
	return args.Error(0)
}

func (m *MockSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockOpenOrderCounter is a mock implementation of OpenOrderCounter
type MockOpenOrderCounter struct {
	mock.Mock
}

func (m *MockOpenOrderCounter) CountOpenBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

var testTenantID = uuid.New()

func newTestSupplier(t *testing.T) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(testTenantID, "sup-001", "Acme Components")
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func eventTypes(events []shared.DomainEvent) []string {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

func TestSupplierService_Create(t *testing.T) {
	t.Run("create with blocks", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		repo.On("ExistsByCode", mock.Anything, testTenantID, "sup-001").Return(false, nil)
		var saved []shared.DomainEvent
		repo.On("SaveWithLockAndEvents", mock.Anything, mock.AnythingOfType("*partner.Supplier"), mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(2).([]shared.DomainEvent) }).
			Return(nil)

		resp, err := service.Create(context.Background(), testTenantID, CreateSupplierRequest{
			Code:    "sup-001",
			Name:    "Acme Components",
			Contact: &ContactInfoRequest{ContactName: "Jo Lee", Email: "orders@acme.example"},
			Financial: &FinancialInfoRequest{
				Currency:        "usd",
				PaymentTermDays: 45,
				CreditLimit:     decimal.NewFromInt(10000),
			},
			Operational: &OperationalInfoRequest{DefaultLeadTimeDays: 10, Rating: 4, IsPreferred: true},
		})

		require.NoError(t, err)
		assert.Equal(t, "SUP-001", resp.Code)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.True(t, resp.CanReceiveOrders)
		assert.Equal(t, "USD", resp.Financial.Currency)
		assert.Equal(t, "NET45", resp.Financial.PaymentTerms)
		assert.Equal(t, 10, resp.Operational.DefaultLeadTimeDays)
		assert.Equal(t, "orders@acme.example", resp.Contact.Email)
		require.NotEmpty(t, saved)
		assert.Equal(t, partner.EventTypeSupplierCreated, saved[0].EventType())
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		repo.On("ExistsByCode", mock.Anything, testTenantID, "SUP-001").Return(true, nil)

		_, err := service.Create(context.Background(), testTenantID, CreateSupplierRequest{Code: "SUP-001", Name: "Acme"})

		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ALREADY_EXISTS", de.Code)
		repo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		repo.On("ExistsByCode", mock.Anything, testTenantID, "SUP-001").Return(false, nil)

		_, err := service.Create(context.Background(), testTenantID, CreateSupplierRequest{
			Code:    "SUP-001",
			Name:    "Acme",
			Contact: &ContactInfoRequest{Email: "not-an-email"},
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unsupported currency", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		repo.On("ExistsByCode", mock.Anything, testTenantID, "SUP-001").Return(false, nil)

		_, err := service.Create(context.Background(), testTenantID, CreateSupplierRequest{
			Code:      "SUP-001",
			Name:      "Acme",
			Financial: &FinancialInfoRequest{Currency: "ZZZ"},
		})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_CURRENCY", de.Code)
	})
}

func TestSupplierService_StatusChanges(t *testing.T) {
	t.Run("blacklist emits status change", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		supplier := newTestSupplier(t)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, supplier.ID).Return(supplier, nil)
		var saved []shared.DomainEvent
		repo.On("SaveWithLockAndEvents", mock.Anything, supplier, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(2).([]shared.DomainEvent) }).
			Return(nil)

		resp, err := service.Blacklist(context.Background(), testTenantID, supplier.ID, SupplierStatusReasonRequest{Reason: "fraud"})

		require.NoError(t, err)
		assert.Equal(t, "BLACKLISTED", resp.Status)
		assert.Equal(t, "fraud", resp.StatusReason)
		assert.False(t, resp.CanReceiveOrders)
		require.Len(t, saved, 1)
		changed, ok := saved[0].(*partner.SupplierStatusChangedEvent)
		require.True(t, ok)
		assert.True(t, changed.IsBlacklisting())
		assert.Empty(t, supplier.GetDomainEvents())
	})

	t.Run("reinstate leaves supplier inactive", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		supplier := newTestSupplier(t)
		require.NoError(t, supplier.Blacklist("fraud"))
		supplier.ClearDomainEvents()
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, supplier.ID).Return(supplier, nil)
		repo.On("SaveWithLockAndEvents", mock.Anything, supplier, mock.Anything).Return(nil)

		resp, err := service.Reinstate(context.Background(), testTenantID, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "INACTIVE", resp.Status)

		resp, err = service.Activate(context.Background(), testTenantID, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)
	})

	t.Run("hold requires active supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		supplier := newTestSupplier(t)
		require.NoError(t, supplier.Deactivate())
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, supplier.ID).Return(supplier, nil)

		_, err := service.PutOnHold(context.Background(), testTenantID, supplier.ID, SupplierStatusReasonRequest{Reason: "audit"})

		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_STATE_TRANSITION", de.Code)
		repo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("update operational block", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, nil)

		supplier := newTestSupplier(t)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, supplier.ID).Return(supplier, nil)
		var saved []shared.DomainEvent
		repo.On("SaveWithLockAndEvents", mock.Anything, supplier, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(2).([]shared.DomainEvent) }).
			Return(nil)

		resp, err := service.UpdateOperational(context.Background(), testTenantID, supplier.ID, OperationalInfoRequest{
			DefaultLeadTimeDays: 14,
			MinimumOrderAmount:  decimal.NewFromInt(500),
			Rating:              5,
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(500).Equal(resp.Operational.MinimumOrderAmount))
		assert.Equal(t, []string{partner.EventTypeSupplierUpdated}, eventTypes(saved))
	})
}

func TestSupplierService_List(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo, nil)

	supplier := newTestSupplier(t)
	preferred := true
	rating := 3

	repo.On("FindAllForTenant", mock.Anything, testTenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "code" && f.OrderDir == "asc" &&
			f.Filters["status"] == "ACTIVE" && f.Filters["is_preferred"] == true && f.Filters["min_rating"] == 3
	})).Return([]partner.Supplier{*supplier}, nil)
	repo.On("CountForTenant", mock.Anything, testTenantID, mock.Anything).Return(int64(1), nil)

	items, total, err := service.List(context.Background(), testTenantID, SupplierListFilter{
		Status:      "ACTIVE",
		IsPreferred: &preferred,
		MinRating:   &rating,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "SUP-001", items[0].Code)
}

func TestSupplierService_Delete(t *testing.T) {
	t.Run("refused while orders are open", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		counter := new(MockOpenOrderCounter)
		service := NewSupplierService(repo, counter)

		supplier := newTestSupplier(t)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, supplier.ID).Return(supplier, nil)
		counter.On("CountOpenBySupplier", mock.Anything, testTenantID, supplier.ID).Return(int64(2), nil)

		err := service.Delete(context.Background(), testTenantID, supplier.ID)

		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "SUPPLIER_IN_USE", de.Code)
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deleted when no open orders", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		counter := new(MockOpenOrderCounter)
		service := NewSupplierService(repo, counter)

		supplier := newTestSupplier(t)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, supplier.ID).Return(supplier, nil)
		counter.On("CountOpenBySupplier", mock.Anything, testTenantID, supplier.ID).Return(int64(0), nil)
		repo.On("DeleteForTenant", mock.Anything, testTenantID, supplier.ID).Return(nil)

		require.NoError(t, service.Delete(context.Background(), testTenantID, supplier.ID))
		repo.AssertExpectations(t)
	})

	t.Run("count failure", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		counter := new(MockOpenOrderCounter)
		service := NewSupplierService(repo, counter)

		supplier := newTestSupplier(t)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, supplier.ID).Return(supplier, nil)
		counter.On("CountOpenBySupplier", mock.Anything, testTenantID, supplier.ID).Return(int64(0), errors.New("timeout"))

		err := service.Delete(context.Background(), testTenantID, supplier.ID)
		assert.EqualError(t, err, "timeout")
	})
}
