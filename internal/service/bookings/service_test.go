package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	bookingRepo "github.com/ccs-paris/CCS-SchedulingService/internal/infra/storage/booking"
	"github.com/ccs-paris/CCS-SchedulingService/internal/service/bookings/models"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/ptr"
)

// fakeBookingRepo хранит заявки в памяти
type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) SetClientNotified(_ context.Context, id int64) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.ClientNotified = true
	return nil
}

// fakeSlotRepo считает подтверждения и освобождения слотов по заявке
type fakeSlotRepo struct {
	pendingSlots int64
	confirmed    []int64
	released     []int64
}

func (f *fakeSlotRepo) ConfirmByBookingID(_ context.Context, bookingID int64) (int64, error) {
	f.confirmed = append(f.confirmed, bookingID)
	n := f.pendingSlots
	f.pendingSlots = 0
	return n, nil
}

func (f *fakeSlotRepo) ReleaseByBookingID(_ context.Context, bookingID int64) (int64, error) {
	f.released = append(f.released, bookingID)
	n := f.pendingSlots
	f.pendingSlots = 0
	return n, nil
}

// fakeCache считает сбросы кэша
type fakeCache struct {
	invalidations int
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.invalidations++
	return nil
}

// fakeTxManager выполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (*noopLogger) Info(string, ...interface{})  {}
func (*noopLogger) Warn(string, ...interface{})  {}
func (*noopLogger) Error(string, ...interface{}) {}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie.dupont@example.com",
		Phone:     "+33612345678",
		Address:   "12 rue de Rivoli, 75001 Paris",
		PrimaryService: domain.ServiceLine{
			ServiceID:   "menage",
			ServiceName: "Ménage à domicile",
			Quantity:    2,
			UnitPrice:   100,
		},
		TimeSlots: []domain.BookingSlot{
			{
				Date:      time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
				StartTime: "09:00",
				EndTime:   "11:00",
			},
		},
		TotalAmount:     200,
		DiscountPercent: 20,
		Status:          status,
		CreatedAt:       time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
	}
}

func newTestService(bookings *fakeBookingRepo, slots *fakeSlotRepo) (*Service, *fakeCache) {
	cache := &fakeCache{}
	return NewService(bookings, slots, cache, fakeTxManager{}, &noopLogger{}), cache
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(newFakeBookingRepo(testBooking(1, domain.BookingPending)), &fakeSlotRepo{})

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Marie", resp.FirstName)

	_, err = svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_FiltersByStatus(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.BookingPending),
		testBooking(2, domain.BookingConfirmed),
		testBooking(3, domain.BookingPending),
	)
	svc, _ := newTestService(repo, &fakeSlotRepo{})

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("pending")})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("unknown")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_ConfirmConfirmsSlots(t *testing.T) {
	slots := &fakeSlotRepo{pendingSlots: 2}
	svc, cache := newTestService(newFakeBookingRepo(testBooking(1, domain.BookingPending)), slots)

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, []int64{1}, slots.confirmed)
	assert.Empty(t, slots.released)
	assert.Equal(t, 1, cache.invalidations)
}

func TestUpdateStatus_CancelReleasesSlots(t *testing.T) {
	slots := &fakeSlotRepo{pendingSlots: 1}
	svc, cache := newTestService(newFakeBookingRepo(testBooking(1, domain.BookingConfirmed)), slots)

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, []int64{1}, slots.released)
	assert.Equal(t, 1, cache.invalidations)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.BookingStatus
		target string
	}{
		{"pending cannot complete directly", domain.BookingPending, "completed"},
		{"cancelled is terminal", domain.BookingCancelled, "confirmed"},
		{"completed is terminal", domain.BookingCompleted, "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := &fakeSlotRepo{}
			svc, cache := newTestService(newFakeBookingRepo(testBooking(1, tt.from)), slots)

			_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: tt.target})
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Empty(t, slots.confirmed)
			assert.Empty(t, slots.released)
			assert.Equal(t, 0, cache.invalidations)
		})
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _ := newTestService(newFakeBookingRepo(testBooking(1, domain.BookingPending)), &fakeSlotRepo{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_SetsClientNotified(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.BookingConfirmed))
	svc, _ := newTestService(repo, &fakeSlotRepo{})

	// Статус не меняется, только флаг уведомления
	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		Status:         "confirmed",
		ClientNotified: ptr.Ptr(true),
	})
	require.NoError(t, err)
	assert.True(t, resp.ClientNotified)
}

func TestCancel(t *testing.T) {
	slots := &fakeSlotRepo{pendingSlots: 1}
	repo := newFakeBookingRepo(testBooking(1, domain.BookingPending))
	svc, cache := newTestService(repo, slots)

	require.NoError(t, svc.Cancel(context.Background(), 1))

	assert.Equal(t, domain.BookingCancelled, repo.bookings[1].Status)
	assert.Equal(t, []int64{1}, slots.released)
	assert.Equal(t, 1, cache.invalidations)
}

func TestCancel_CompletedRejected(t *testing.T) {
	slots := &fakeSlotRepo{}
	svc, cache := newTestService(newFakeBookingRepo(testBooking(1, domain.BookingCompleted)), slots)

	err := svc.Cancel(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, slots.released)
	assert.Equal(t, 0, cache.invalidations)
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := newTestService(newFakeBookingRepo(), &fakeSlotRepo{})
	assert.ErrorIs(t, svc.Cancel(context.Background(), 404), ErrBookingNotFound)
}
