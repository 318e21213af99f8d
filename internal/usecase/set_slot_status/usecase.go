package set_slot_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	slotRepo "github.com/ccs-paris/CCS-SchedulingService/internal/infra/storage/slot"
)

// UseCase use case для смены статуса слота персоналом (блокировка/разблокировка)
type UseCase struct {
	slotRepo  SlotRepository
	cache     Cache
	txManager TransactionManager
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepository SlotRepository, cache Cache, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:  slotRepository,
		cache:     cache,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute выполняет use case смены статуса слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SetSlotStatus: date=%s, time=%s, status=%s",
		req.Date.Format(domain.DateFormat), req.StartTime, req.Status)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SetSlotStatus: validation failed: %v", err)
		return nil, err
	}

	window, _ := domain.WindowByStart(req.StartTime)

	var resp *Response

	// 2. Читаем запись с блокировкой и меняем статус атомарно
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		rec, err := uc.slotRepo.GetByDateAndStart(txCtx, req.Date, req.StartTime)
		if err != nil && !errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Error("SetSlotStatus: failed to get slot: %v", err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// Записи нет — слот неявно доступен
		if rec == nil {
			if req.Status == domain.SlotAvailable {
				// Разблокировка доступного слота — no-op
				resp = &Response{
					Date:      req.Date,
					StartTime: window.StartTime,
					EndTime:   window.EndTime,
					Status:    domain.SlotAvailable,
				}
				return nil
			}

			created, err := uc.slotRepo.Create(txCtx, &domain.SlotRecord{
				Date:      req.Date,
				StartTime: window.StartTime,
				EndTime:   window.EndTime,
				Status:    domain.SlotBlocked,
				Notes:     req.Notes,
			})
			if err != nil {
				// Гонка с конкурентной вставкой решается уникальным индексом
				if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
					return fmt.Errorf("%w: slot was modified concurrently", ErrInvalidTransition)
				}
				uc.logger.Error("SetSlotStatus: failed to create slot record: %v", err)
				return fmt.Errorf("%w: failed to create slot record: %v", ErrInternal, err)
			}

			resp = recordResponse(created)
			return nil
		}

		if rec.Status == req.Status {
			// Идемпотентный повтор; обновленная заметка при этом не теряется
			if !notesEqual(rec.Notes, req.Notes) {
				if err := uc.slotRepo.UpdateStatusAndNotes(txCtx, rec.ID, req.Status, req.Notes); err != nil {
					uc.logger.Error("SetSlotStatus: failed to update slot id=%d: %v", rec.ID, err)
					return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
				}
				rec.Notes = req.Notes
			}
			resp = recordResponse(rec)
			return nil
		}

		if !rec.Status.CanTransitionTo(req.Status) {
			uc.logger.Warn("SetSlotStatus: transition %s -> %s rejected", rec.Status, req.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, req.Status)
		}

		if err := uc.slotRepo.UpdateStatusAndNotes(txCtx, rec.ID, req.Status, req.Notes); err != nil {
			uc.logger.Error("SetSlotStatus: failed to update slot id=%d: %v", rec.ID, err)
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}

		rec.Status = req.Status
		rec.Notes = req.Notes
		resp = recordResponse(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Слот изменился — материализованная доступность устарела
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("SetSlotStatus: cache invalidation failed: %v", err)
	}

	uc.logger.Info("SetSlotStatus: slot %s %s is now %s",
		req.Date.Format(domain.DateFormat), req.StartTime, req.Status)

	return resp, nil
}

// notesEqual сравнивает заметки с учетом отсутствия значения
func notesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// recordResponse строит ответ из записи слота
func recordResponse(rec *domain.SlotRecord) *Response {
	return &Response{
		ID:        &rec.ID,
		Date:      rec.Date,
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
		Status:    rec.Status,
		Notes:     rec.Notes,
	}
}
