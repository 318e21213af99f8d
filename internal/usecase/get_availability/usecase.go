package get_availability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
)

// UseCase use case для получения материализованной доступности слотов
type UseCase struct {
	slotRepo        SlotRepository
	cache           Cache
	timeProvider    TimeProvider
	logger          Logger
	horizonDays     int
	leadTimeMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, cache Cache, horizonDays, leadTimeMinutes int, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		horizonDays:     horizonDays,
		leadTimeMinutes: leadTimeMinutes,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	// 1. Прижимаем диапазон к эффективному окну доступности
	period := clampPeriod(req.StartDate, req.EndDate, now, uc.horizonDays)

	uc.logger.Info("GetAvailability: period=%s..%s, includeBlocked=%t",
		period.Start.Format(domain.DateFormat), period.End.Format(domain.DateFormat), req.IncludeBlocked)

	// 2. Пробуем кэш. Промах и ошибка кэша равнозначны — идем в БД.
	key := cacheKey(period, req.IncludeBlocked)
	if data, ok, err := uc.cache.Get(ctx, key); err != nil {
		uc.logger.Warn("GetAvailability: cache get failed: %v", err)
	} else if ok {
		var cached Response
		if err := json.Unmarshal(data, &cached); err == nil {
			uc.logger.Info("GetAvailability: cache hit, %d slots", len(cached.Slots))
			return &cached, nil
		}
		uc.logger.Warn("GetAvailability: cache payload corrupted, rebuilding: %v", err)
	}

	// 3. Читаем персистентные записи слотов диапазона
	var records []*domain.SlotRecord
	if !period.IsEmpty() {
		var err error
		records, err = uc.slotRepo.GetByDateRange(ctx, period.Start, period.End)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get slot records: %v", err)
			return nil, fmt.Errorf("%w: failed to get slot records: %v", ErrInternal, err)
		}
	}

	// 4. Материализуем расписание поверх записей
	slots, err := materializeRange(period, records, req.IncludeBlocked, now, uc.leadTimeMinutes)
	if err != nil {
		uc.logger.Error("GetAvailability: materialization failed: %v", err)
		return nil, fmt.Errorf("%w: materialization failed: %v", ErrInternal, err)
	}

	resp := &Response{
		StartDate: period.Start,
		EndDate:   period.End,
		Slots:     slots,
	}

	// 5. Кладем ответ в кэш; ошибка кэша не фатальна
	if data, err := json.Marshal(resp); err == nil {
		if err := uc.cache.Set(ctx, key, data); err != nil {
			uc.logger.Warn("GetAvailability: cache set failed: %v", err)
		}
	}

	uc.logger.Info("GetAvailability: materialized %d slots over %d records", len(slots), len(records))

	return resp, nil
}
