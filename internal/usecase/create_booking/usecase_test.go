package create_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	slotRepo "github.com/ccs-paris/CCS-SchedulingService/internal/infra/storage/slot"
	"github.com/ccs-paris/CCS-SchedulingService/internal/integrations/catalogservice"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/ptr"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// fakeSlotRepo хранит записи слотов в памяти, имитируя уникальный индекс
type fakeSlotRepo struct {
	records map[string]*domain.SlotRecord
	nextID  int64
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{records: make(map[string]*domain.SlotRecord), nextID: 1}
}

func slotMapKey(date time.Time, start types.TimeString) string {
	return fmt.Sprintf("%s|%s", date.Format(domain.DateFormat), start)
}

func (f *fakeSlotRepo) add(rec *domain.SlotRecord) *domain.SlotRecord {
	rec.ID = f.nextID
	f.nextID++
	f.records[slotMapKey(rec.Date, rec.StartTime)] = rec
	return rec
}

func (f *fakeSlotRepo) Create(_ context.Context, rec *domain.SlotRecord) (*domain.SlotRecord, error) {
	if _, exists := f.records[slotMapKey(rec.Date, rec.StartTime)]; exists {
		return nil, slotRepo.ErrSlotAlreadyExists
	}
	return f.add(rec), nil
}

func (f *fakeSlotRepo) GetByDateAndStart(_ context.Context, date time.Time, start types.TimeString) (*domain.SlotRecord, error) {
	rec, ok := f.records[slotMapKey(date, start)]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return rec, nil
}

func (f *fakeSlotRepo) UpdateStatus(_ context.Context, id int64, status domain.SlotStatus, bookingID *int64) error {
	for _, rec := range f.records {
		if rec.ID == id {
			rec.Status = status
			rec.BookingID = bookingID
			return nil
		}
	}
	return slotRepo.ErrSlotNotFound
}

// fakeBookingRepo сохраняет заявки в память
type fakeBookingRepo struct {
	created []*domain.Booking
	nextID  int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	stored := *b
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.created = append(f.created, &stored)
	return &stored, nil
}

// fakeCatalog каталог услуг с фиксированными ценами
type fakeCatalog struct {
	services map[string]*catalogservice.Service
	discount float64
	degraded bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[string]*catalogservice.Service{
			"menage": {ID: "menage", Name: "Ménage à domicile", PricingType: catalogservice.PricingFixed, Price: ptr.Ptr(100.0)},
			"vitres": {ID: "vitres", Name: "Nettoyage de vitres", PricingType: catalogservice.PricingFixed, Price: ptr.Ptr(50.0)},
			"devis":  {ID: "devis", Name: "Sur devis", PricingType: catalogservice.PricingQuote, Price: nil},
		},
		discount: 20,
	}
}

func (f *fakeCatalog) ResolveUnitPrice(_ context.Context, serviceID string) (*catalogservice.Service, float64, error) {
	if f.degraded {
		return nil, 0, catalogservice.ErrServiceDegraded
	}
	service, ok := f.services[serviceID]
	if !ok {
		return nil, 0, catalogservice.ErrServiceNotFound
	}
	if service.PricingType == catalogservice.PricingQuote || service.Price == nil {
		return nil, 0, catalogservice.ErrPriceNotConfigured
	}
	return service, *service.Price, nil
}

func (f *fakeCatalog) GetDiscountPercent(_ context.Context) float64 {
	return f.discount
}

// fakeInvalidator считает сбросы кэша
type fakeInvalidator struct {
	invalidations int
}

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.invalidations++
	return nil
}

// fakeTxManager выполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubTimeProvider struct {
	now time.Time
}

func (s *stubTimeProvider) Now() time.Time {
	return s.now
}

type noopLogger struct{}

func (*noopLogger) Info(string, ...interface{})  {}
func (*noopLogger) Warn(string, ...interface{})  {}
func (*noopLogger) Error(string, ...interface{}) {}

type testEnv struct {
	uc       *UseCase
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	catalog  *fakeCatalog
	cache    *fakeInvalidator
}

func newTestEnv(now time.Time) *testEnv {
	slots := newFakeSlotRepo()
	bookings := &fakeBookingRepo{}
	catalog := newFakeCatalog()
	cache := &fakeInvalidator{}
	uc := NewUseCase(slots, bookings, catalog, cache, fakeTxManager{}, domain.DefaultLeadTimeMinutes, &noopLogger{})
	uc.timeProvider = &stubTimeProvider{now: now}
	return &testEnv{uc: uc, slots: slots, bookings: bookings, catalog: catalog, cache: cache}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRequest() *Request {
	return &Request{
		FirstName:      "Marie",
		LastName:       "Dupont",
		Email:          "marie.dupont@example.com",
		Phone:          "+33612345678",
		Address:        "12 rue de Rivoli, 75001 Paris",
		PrimaryService: RequestLine{ServiceID: "menage", Quantity: 2},
		SecondaryServices: []RequestLine{
			{ServiceID: "vitres", Quantity: 1},
		},
		TimeSlots: []RequestSlot{
			{Date: date(2026, 9, 20), StartTime: "09:00"},
		},
	}
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// 100*2 + 50*0.8 = 240
	assert.Equal(t, 240.0, resp.TotalAmount)
	assert.Equal(t, 20.0, resp.DiscountPercent)
	assert.Equal(t, domain.BookingPending, resp.Status)
	assert.Equal(t, "Ménage à domicile", resp.PrimaryService.ServiceName)
	assert.Equal(t, 0.0, resp.PrimaryService.DiscountPercent)
	assert.Equal(t, 20.0, resp.SecondaryServices[0].DiscountPercent)

	// Слот захвачен и привязан к заявке
	rec, err := env.slots.GetByDateAndStart(context.Background(), date(2026, 9, 20), "09:00")
	require.NoError(t, err)
	assert.Equal(t, domain.SlotPending, rec.Status)
	require.NotNil(t, rec.BookingID)
	assert.Equal(t, resp.ID, *rec.BookingID)
	assert.Equal(t, types.TimeString("11:00"), rec.EndTime)

	assert.Equal(t, 1, env.cache.invalidations)
}

func TestExecute_MultiSlotClaim(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	// Один слот уже имеет запись в статусе available, второй — синтетический
	env.slots.add(&domain.SlotRecord{
		Date:      date(2026, 9, 20),
		StartTime: "09:00",
		EndTime:   "11:00",
		Status:    domain.SlotAvailable,
	})

	req := validRequest()
	req.TimeSlots = []RequestSlot{
		{Date: date(2026, 9, 20), StartTime: "09:00"},
		{Date: date(2026, 9, 21), StartTime: "15:00"},
	}

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.TimeSlots, 2)

	for _, s := range resp.TimeSlots {
		rec, err := env.slots.GetByDateAndStart(context.Background(), s.Date, s.StartTime)
		require.NoError(t, err)
		assert.Equal(t, domain.SlotPending, rec.Status)
		require.NotNil(t, rec.BookingID)
		assert.Equal(t, resp.ID, *rec.BookingID)
	}
}

func TestExecute_SlotConflictRejectsWholeBooking(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	env.slots.add(&domain.SlotRecord{
		Date:      date(2026, 9, 20),
		StartTime: "09:00",
		EndTime:   "11:00",
		Status:    domain.SlotConfirmed,
		BookingID: ptr.Ptr(int64(7)),
	})

	req := validRequest()
	req.TimeSlots = []RequestSlot{
		{Date: date(2026, 9, 20), StartTime: "09:00"},
		{Date: date(2026, 9, 21), StartTime: "15:00"},
	}

	_, err := env.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotConflict)

	var conflict *SlotsConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Slots, 1)
	assert.Equal(t, types.TimeString("09:00"), conflict.Slots[0].StartTime)

	// Ни заявка, ни второй слот не созданы
	assert.Empty(t, env.bookings.created)
	_, err = env.slots.GetByDateAndStart(context.Background(), date(2026, 9, 21), "15:00")
	assert.ErrorIs(t, err, slotRepo.ErrSlotNotFound)
	assert.Equal(t, 0, env.cache.invalidations)
}

func TestExecute_BlockedSlotConflicts(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	env.slots.add(&domain.SlotRecord{
		Date:      date(2026, 9, 20),
		StartTime: "09:00",
		EndTime:   "11:00",
		Status:    domain.SlotBlocked,
	})

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	req := validRequest()
	req.PrimaryService.ServiceID = "inconnu"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Empty(t, env.bookings.created)
}

func TestExecute_QuoteOnlyServiceRejected(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	req := validRequest()
	req.SecondaryServices = []RequestLine{{ServiceID: "devis", Quantity: 1}}

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPriceNotConfigured)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "missing first name",
			mutate:  func(r *Request) { r.FirstName = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad email",
			mutate:  func(r *Request) { r.Email = "not-an-email" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad phone",
			mutate:  func(r *Request) { r.Phone = "12345" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero quantity",
			mutate:  func(r *Request) { r.PrimaryService.Quantity = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no slots",
			mutate:  func(r *Request) { r.TimeSlots = nil },
			wantErr: ErrInvalidInput,
		},
		{
			name: "duplicate slots",
			mutate: func(r *Request) {
				r.TimeSlots = []RequestSlot{
					{Date: date(2026, 9, 20), StartTime: "09:00"},
					{Date: date(2026, 9, 20), StartTime: "09:00"},
				}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "off-catalog start time",
			mutate: func(r *Request) {
				r.TimeSlots = []RequestSlot{{Date: date(2026, 9, 20), StartTime: "10:00"}}
			},
			wantErr: ErrSlotNotInCatalog,
		},
		{
			name: "slot in the past",
			mutate: func(r *Request) {
				r.TimeSlots = []RequestSlot{{Date: date(2026, 9, 10), StartTime: "09:00"}}
			},
			wantErr: ErrSlotInPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
			req := validRequest()
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_SameDayLeadTime(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		start   types.TimeString
		tooLate bool
	}{
		{"half an hour of lead is not enough", time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC), "15:00", true},
		{"exactly one hour of lead is not enough", time.Date(2026, 9, 15, 16, 0, 0, 0, time.UTC), "17:00", true},
		{"seconds count toward the cutoff", time.Date(2026, 9, 15, 16, 0, 30, 0, time.UTC), "17:00", true},
		{"a minute over an hour is enough", time.Date(2026, 9, 15, 15, 59, 0, 0, time.UTC), "17:00", false},
		{"distant same-day slot is bookable", time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC), "17:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(tt.now)
			req := validRequest()
			req.TimeSlots = []RequestSlot{{Date: date(2026, 9, 15), StartTime: tt.start}}

			_, err := env.uc.Execute(context.Background(), req)
			if tt.tooLate {
				assert.ErrorIs(t, err, ErrTooLateToBook)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_CatalogDownRejectsBooking(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
	env.catalog.degraded = true

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Empty(t, env.bookings.created)
}

func TestExecute_ZeroQuantitySecondaryDropped(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	req := validRequest()
	req.SecondaryServices = []RequestLine{
		{ServiceID: "vitres", Quantity: 1},
		{ServiceID: "devis", Quantity: 0}, // невыбранная опция, цена не разрешается
	}

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.SecondaryServices, 1)
	assert.Equal(t, 240.0, resp.TotalAmount)
}

func TestExecute_ClientTotalIgnored(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	req := validRequest()
	req.TotalAmount = ptr.Ptr(1.0) // фронт насчитал что-то свое

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 240.0, resp.TotalAmount)
}

func TestExecute_InsertRaceMapsToConflict(t *testing.T) {
	env := newTestEnv(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	// Имитация гонки: конкурент вставляет запись между чтением и INSERT
	env.slots.records[slotMapKey(date(2026, 9, 20), "09:00")] = &domain.SlotRecord{
		ID:        99,
		Date:      date(2026, 9, 20),
		StartTime: "09:00",
		EndTime:   "11:00",
		Status:    domain.SlotPending,
		BookingID: ptr.Ptr(int64(7)),
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}
