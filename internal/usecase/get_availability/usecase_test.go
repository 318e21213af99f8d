package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/ptr"
)

// fakeSlotRepo репозиторий слотов с фиксированным набором записей
type fakeSlotRepo struct {
	records []*domain.SlotRecord
	calls   int
	err     error
}

func (f *fakeSlotRepo) GetByDateRange(_ context.Context, from, to time.Time) ([]*domain.SlotRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.SlotRecord, 0)
	for _, rec := range f.records {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			result = append(result, rec)
		}
	}
	return result, nil
}

// fakeCache простой кэш на map
type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := f.store[key]
	return data, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, data []byte) error {
	f.store[key] = data
	return nil
}

// stubTimeProvider фиксированное время
type stubTimeProvider struct {
	now time.Time
}

func (s *stubTimeProvider) Now() time.Time {
	return s.now
}

func newTestUseCase(repo *fakeSlotRepo, cache *fakeCache, now time.Time) *UseCase {
	uc := NewUseCase(repo, cache, domain.DefaultHorizonDays, domain.DefaultLeadTimeMinutes, &noopLogger{})
	uc.timeProvider = &stubTimeProvider{now: now}
	return uc
}

type noopLogger struct{}

func (*noopLogger) Info(string, ...interface{})  {}
func (*noopLogger) Warn(string, ...interface{})  {}
func (*noopLogger) Error(string, ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExecute_FullHorizon(t *testing.T) {
	// 14:30 — слоты 09:00..15:00 сегодня уже отсечены, 17:00 еще доступен
	now := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	repo := &fakeSlotRepo{}
	uc := newTestUseCase(repo, newFakeCache(), now)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.Equal(t, date(2026, 9, 15), resp.StartDate)
	assert.Equal(t, date(2026, 10, 14), resp.EndDate)

	// Сегодня 1 слот (17:00), остальные 29 дней по 5
	assert.Len(t, resp.Slots, 1+29*5)
	assert.Equal(t, "17:00", resp.Slots[0].StartTime.String())
	assert.True(t, resp.Slots[0].Bookable)
}

func TestExecute_LeadTimeCutoff(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantStarts []string
	}{
		{
			name:       "at 14:30 only 17:00 remains",
			now:        time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC),
			wantStarts: []string{"17:00"},
		},
		{
			name:       "exactly one hour ahead is not enough",
			now:        time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC),
			wantStarts: []string{"17:00"},
		},
		{
			name:       "one minute over an hour keeps the slot",
			now:        time.Date(2026, 9, 15, 13, 59, 0, 0, time.UTC),
			wantStarts: []string{"15:00", "17:00"},
		},
		{
			name:       "seconds count toward the cutoff",
			now:        time.Date(2026, 9, 15, 14, 0, 30, 0, time.UTC),
			wantStarts: []string{"17:00"},
		},
		{
			name:       "early morning keeps the full day",
			now:        time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC),
			wantStarts: []string{"09:00", "11:00", "13:00", "15:00", "17:00"},
		},
		{
			name:       "late evening leaves nothing",
			now:        time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC),
			wantStarts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeSlotRepo{}, newFakeCache(), tt.now)

			resp, err := uc.Execute(context.Background(), &Request{
				StartDate: date(2026, 9, 15),
				EndDate:   date(2026, 9, 15),
			})
			require.NoError(t, err)

			starts := make([]string, 0)
			for _, s := range resp.Slots {
				starts = append(starts, s.StartTime.String())
			}
			assert.Equal(t, tt.wantStarts, starts)
		})
	}
}

func TestExecute_ClampsPastStart(t *testing.T) {
	now := time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeSlotRepo{}, newFakeCache(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 9, 16),
	})
	require.NoError(t, err)

	assert.Equal(t, date(2026, 9, 15), resp.StartDate)
	assert.Equal(t, date(2026, 9, 16), resp.EndDate)
	assert.Len(t, resp.Slots, 10)
}

func TestExecute_EndBeforeStartReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{}
	uc := newTestUseCase(repo, newFakeCache(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: date(2026, 9, 20),
		EndDate:   date(2026, 9, 18),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	assert.True(t, resp.EndDate.Before(resp.StartDate))
	assert.Equal(t, 0, repo.calls)
}

func TestExecute_CapsEndAtHorizon(t *testing.T) {
	now := time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeSlotRepo{}, newFakeCache(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: date(2026, 9, 15),
		EndDate:   date(2027, 1, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, date(2026, 10, 14), resp.EndDate)
}

func TestExecute_MergesOverrides(t *testing.T) {
	now := time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)
	day := date(2026, 9, 16)
	repo := &fakeSlotRepo{
		records: []*domain.SlotRecord{
			{
				ID:        1,
				Date:      day,
				StartTime: "09:00",
				EndTime:   "11:00",
				Status:    domain.SlotBlocked,
				Notes:     ptr.Ptr("congés"),
			},
			{
				ID:        2,
				Date:      day,
				StartTime: "13:00",
				EndTime:   "15:00",
				Status:    domain.SlotPending,
				BookingID: ptr.Ptr(int64(42)),
			},
		},
	}
	uc := newTestUseCase(repo, newFakeCache(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: day,
		EndDate:   day,
	})
	require.NoError(t, err)

	// Заблокированный слот скрыт из публичной выдачи
	require.Len(t, resp.Slots, 4)

	byStart := make(map[string]Slot)
	for _, s := range resp.Slots {
		byStart[s.StartTime.String()] = s
	}

	pending := byStart["13:00"]
	assert.Equal(t, domain.SlotPending, pending.Status)
	assert.False(t, pending.Bookable)
	require.NotNil(t, pending.ID)
	assert.Equal(t, int64(2), *pending.ID)

	free := byStart["11:00"]
	assert.Equal(t, domain.SlotAvailable, free.Status)
	assert.True(t, free.Bookable)
	assert.Nil(t, free.ID)
}

func TestExecute_IncludeBlocked(t *testing.T) {
	now := time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)
	day := date(2026, 9, 16)
	repo := &fakeSlotRepo{
		records: []*domain.SlotRecord{
			{
				ID:        1,
				Date:      day,
				StartTime: "09:00",
				EndTime:   "11:00",
				Status:    domain.SlotBlocked,
				Notes:     ptr.Ptr("congés"),
			},
		},
	}
	uc := newTestUseCase(repo, newFakeCache(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate:      day,
		EndDate:        day,
		IncludeBlocked: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 5)
	blocked := resp.Slots[0]
	assert.Equal(t, domain.SlotBlocked, blocked.Status)
	assert.False(t, blocked.Bookable)
	require.NotNil(t, blocked.Notes)
	assert.Equal(t, "congés", *blocked.Notes)
}

func TestExecute_CacheHit(t *testing.T) {
	now := time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{}
	uc := newTestUseCase(repo, newFakeCache(), now)

	req := &Request{StartDate: date(2026, 9, 16), EndDate: date(2026, 9, 17)}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second call must be served from cache")
	assert.Equal(t, len(first.Slots), len(second.Slots))
}

func TestExecute_CacheKeySeparatesBlockedView(t *testing.T) {
	now := time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{}
	uc := newTestUseCase(repo, newFakeCache(), now)

	_, err := uc.Execute(context.Background(), &Request{StartDate: date(2026, 9, 16), EndDate: date(2026, 9, 16)})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{StartDate: date(2026, 9, 16), EndDate: date(2026, 9, 16), IncludeBlocked: true})
	require.NoError(t, err)

	// Разные режимы выдачи не делят кэш
	assert.Equal(t, 2, repo.calls)
}
