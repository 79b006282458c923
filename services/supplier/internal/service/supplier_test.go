package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/supplier/internal/domain"
)

type mockSupplierRepo struct {
	mock.Mock
}

func (m *mockSupplierRepo) Create(ctx context.Context, s *domain.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSupplierRepo) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) List(ctx context.Context) ([]domain.Supplier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) ListByStatus(ctx context.Context, status domain.SupplierStatus) ([]domain.Supplier, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) Update(ctx context.Context, s *domain.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSupplierRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockContactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *mockContactRepo) ListBySupplier(ctx context.Context, supplierID string) ([]domain.Contact, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *mockContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockContactRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockContactRepo) ClearPrimary(ctx context.Context, supplierID string) error {
	args := m.Called(ctx, supplierID)
	return args.Error(0)
}

type mockDeliveryRepo struct {
	mock.Mock
}

func (m *mockDeliveryRepo) Create(ctx context.Context, d *domain.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDeliveryRepo) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}

func (m *mockDeliveryRepo) ListBySupplier(ctx context.Context, supplierID string) ([]domain.Delivery, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]domain.Delivery), args.Error(1)
}

func (m *mockDeliveryRepo) Update(ctx context.Context, d *domain.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func newTestService(suppliers *mockSupplierRepo, contacts *mockContactRepo, deliveries *mockDeliveryRepo) *SupplierService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSupplierService(suppliers, contacts, deliveries, nil, logger)
}

func validCreateInput() CreateSupplierInput {
	return CreateSupplierInput{
		LegalName: "Acme Fresh Produce Ltd",
		TaxID:     "12.345.678/0001-90",
		Email:     "contact@acmefresh.example",
		Phone:     "+55 11 4000-1234",
		Address:   map[string]any{"street": "Rua Verde 10", "city": "Sao Paulo"},
	}
}

func TestCreateSupplier(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	svc := newTestService(suppliers, nil, nil)

	suppliers.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Supplier) bool {
		return s.LegalName == "Acme Fresh Produce Ltd" &&
			s.Status == domain.SupplierStatusActive &&
			s.ID != ""
	})).Return(nil)

	supplier, err := svc.Create(context.Background(), validCreateInput())

	require.NoError(t, err)
	assert.Equal(t, domain.SupplierStatusActive, supplier.Status)
	assert.False(t, supplier.RegistrationDate.IsZero())
	suppliers.AssertExpectations(t)
}

func TestCreateSupplier_ValidationFailures(t *testing.T) {
	svc := newTestService(new(mockSupplierRepo), nil, nil)

	cases := map[string]func(*CreateSupplierInput){
		"missing legal name": func(in *CreateSupplierInput) { in.LegalName = "" },
		"missing tax id":     func(in *CreateSupplierInput) { in.TaxID = "" },
		"missing email":      func(in *CreateSupplierInput) { in.Email = "" },
		"missing phone":      func(in *CreateSupplierInput) { in.Phone = "" },
		"missing address":    func(in *CreateSupplierInput) { in.Address = nil },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validCreateInput()
			mutate(&input)

			supplier, err := svc.Create(context.Background(), input)
			assert.Nil(t, supplier)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestListActiveSuppliers(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	svc := newTestService(suppliers, nil, nil)

	suppliers.On("ListByStatus", mock.Anything, domain.SupplierStatusActive).
		Return([]domain.Supplier{{ID: "sup-1", Status: domain.SupplierStatusActive}}, nil)

	result, err := svc.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "sup-1", result[0].ID)
}

func TestUpdateSupplier_InvalidStatus(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	svc := newTestService(suppliers, nil, nil)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{
		ID: "sup-1", LegalName: "Acme", Status: domain.SupplierStatusActive,
	}, nil)

	status := "suspended"
	supplier, err := svc.Update(context.Background(), "sup-1", UpdateSupplierInput{Status: &status})

	assert.Nil(t, supplier)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	suppliers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddContact_PrimaryDemotesExisting(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	contacts := new(mockContactRepo)
	svc := newTestService(suppliers, contacts, nil)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	contacts.On("ClearPrimary", mock.Anything, "sup-1").Return(nil)
	contacts.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.SupplierID == "sup-1" && c.IsPrimary
	})).Return(nil)

	contact, err := svc.AddContact(context.Background(), "sup-1", CreateContactInput{
		Name:      "Maria Silva",
		Email:     "maria@acmefresh.example",
		Phone:     "+55 11 98888-0000",
		IsPrimary: true,
	})

	require.NoError(t, err)
	assert.True(t, contact.IsPrimary)
	contacts.AssertExpectations(t)
}

func TestAddContact_NonPrimarySkipsDemotion(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	contacts := new(mockContactRepo)
	svc := newTestService(suppliers, contacts, nil)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	contacts.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.AddContact(context.Background(), "sup-1", CreateContactInput{
		Name:  "Jo Costa",
		Email: "jo@acmefresh.example",
		Phone: "+55 11 97777-0000",
	})

	require.NoError(t, err)
	contacts.AssertNotCalled(t, "ClearPrimary", mock.Anything, mock.Anything)
}

func TestUpdateContact_WrongSupplier(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	contacts := new(mockContactRepo)
	svc := newTestService(suppliers, contacts, nil)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	contacts.On("GetByID", mock.Anything, "con-1").Return(&domain.Contact{
		ID: "con-1", SupplierID: "sup-other",
	}, nil)

	name := "New Name"
	contact, err := svc.UpdateContact(context.Background(), "sup-1", "con-1", UpdateContactInput{Name: &name})

	assert.Nil(t, contact)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	contacts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateContact_PromoteToPrimary(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	contacts := new(mockContactRepo)
	svc := newTestService(suppliers, contacts, nil)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	contacts.On("GetByID", mock.Anything, "con-1").Return(&domain.Contact{
		ID: "con-1", SupplierID: "sup-1", Name: "Maria", IsPrimary: false,
	}, nil)
	contacts.On("ClearPrimary", mock.Anything, "sup-1").Return(nil)
	contacts.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.ID == "con-1" && c.IsPrimary
	})).Return(nil)

	primary := true
	contact, err := svc.UpdateContact(context.Background(), "sup-1", "con-1", UpdateContactInput{IsPrimary: &primary})

	require.NoError(t, err)
	assert.True(t, contact.IsPrimary)
	contacts.AssertExpectations(t)
}

func TestScheduleDelivery(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	deliveries := new(mockDeliveryRepo)
	svc := newTestService(suppliers, nil, deliveries)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	deliveries.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Delivery) bool {
		return d.SupplierID == "sup-1" && d.Status == domain.DeliveryStatusScheduled
	})).Return(nil)

	delivery, err := svc.ScheduleDelivery(context.Background(), "sup-1", CreateDeliveryInput{
		DeliveryDate: time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC),
		Products:     []any{map[string]any{"product_id": "prod-1", "quantity": 40}},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusScheduled, delivery.Status)
}

func TestScheduleDelivery_MissingProducts(t *testing.T) {
	svc := newTestService(new(mockSupplierRepo), nil, new(mockDeliveryRepo))

	delivery, err := svc.ScheduleDelivery(context.Background(), "sup-1", CreateDeliveryInput{
		DeliveryDate: time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC),
	})

	assert.Nil(t, delivery)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateDelivery_ValidTransition(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	deliveries := new(mockDeliveryRepo)
	svc := newTestService(suppliers, nil, deliveries)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	deliveries.On("GetByID", mock.Anything, "del-1").Return(&domain.Delivery{
		ID: "del-1", SupplierID: "sup-1", Status: domain.DeliveryStatusScheduled,
	}, nil)
	deliveries.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.Delivery) bool {
		return d.Status == domain.DeliveryStatusInTransit
	})).Return(nil)

	status := "in_transit"
	delivery, err := svc.UpdateDelivery(context.Background(), "sup-1", "del-1", UpdateDeliveryInput{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusInTransit, delivery.Status)
}

func TestUpdateDelivery_InvalidTransition(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	deliveries := new(mockDeliveryRepo)
	svc := newTestService(suppliers, nil, deliveries)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	deliveries.On("GetByID", mock.Anything, "del-1").Return(&domain.Delivery{
		ID: "del-1", SupplierID: "sup-1", Status: domain.DeliveryStatusDelivered,
	}, nil)

	status := "in_transit"
	delivery, err := svc.UpdateDelivery(context.Background(), "sup-1", "del-1", UpdateDeliveryInput{Status: &status})

	assert.Nil(t, delivery)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	deliveries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateDelivery_SameStatusIsNoTransition(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	deliveries := new(mockDeliveryRepo)
	svc := newTestService(suppliers, nil, deliveries)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	deliveries.On("GetByID", mock.Anything, "del-1").Return(&domain.Delivery{
		ID: "del-1", SupplierID: "sup-1", Status: domain.DeliveryStatusScheduled,
	}, nil)
	deliveries.On("Update", mock.Anything, mock.Anything).Return(nil)

	status := "scheduled"
	notes := "dock 4"
	delivery, err := svc.UpdateDelivery(context.Background(), "sup-1", "del-1", UpdateDeliveryInput{
		Status: &status,
		Notes:  &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusScheduled, delivery.Status)
	assert.Equal(t, "dock 4", delivery.Notes)
}

func TestDeleteSupplier(t *testing.T) {
	suppliers := new(mockSupplierRepo)
	svc := newTestService(suppliers, nil, nil)

	suppliers.On("GetByID", mock.Anything, "sup-1").Return(&domain.Supplier{ID: "sup-1"}, nil)
	suppliers.On("Delete", mock.Anything, "sup-1").Return(nil)

	err := svc.Delete(context.Background(), "sup-1")

	require.NoError(t, err)
	suppliers.AssertExpectations(t)
}
