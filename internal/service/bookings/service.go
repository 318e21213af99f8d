package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	bookingRepo "github.com/ccs-paris/CCS-SchedulingService/internal/infra/storage/booking"
	"github.com/ccs-paris/CCS-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с заявками (админский контур)
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	cache       Cache
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(
	bookingRepository BookingRepository,
	slotRepository SlotRepository,
	cache Cache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepository,
		slotRepo:    slotRepository,
		cache:       cache,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает заявку по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает заявки с фильтрацией по периоду создания и статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings, status=%v", req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid status filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит заявку в новый статус жизненного цикла.
// Подтверждение заявки подтверждает её слоты, отмена — освобождает.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d -> %s", id, req.Status)

	target, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, ErrInvalidStatus
	}

	slotsChanged := false

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if booking.Status != target {
			if !booking.Status.CanTransitionTo(target) {
				s.logger.Warn("UpdateStatus: transition %s -> %s rejected for booking id=%d",
					booking.Status, target, id)
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
			}

			if err := s.bookingRepo.UpdateStatus(txCtx, id, target); err != nil {
				return fmt.Errorf("%w: UpdateStatus - update error: %v", ErrInternal, err)
			}

			switch target {
			case domain.BookingConfirmed:
				n, err := s.slotRepo.ConfirmByBookingID(txCtx, id)
				if err != nil {
					return fmt.Errorf("%w: UpdateStatus - confirm slots: %v", ErrInternal, err)
				}
				slotsChanged = n > 0
			case domain.BookingCancelled:
				n, err := s.slotRepo.ReleaseByBookingID(txCtx, id)
				if err != nil {
					return fmt.Errorf("%w: UpdateStatus - release slots: %v", ErrInternal, err)
				}
				slotsChanged = n > 0
			}
		}

		if req.ClientNotified != nil && *req.ClientNotified && !booking.ClientNotified {
			if err := s.bookingRepo.SetClientNotified(txCtx, id); err != nil {
				return fmt.Errorf("%w: UpdateStatus - set client notified: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if slotsChanged {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("UpdateStatus: cache invalidation failed: %v", err)
		}
	}

	// Перечитываем итоговое состояние
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to re-read booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: booking id=%d is now %s", id, booking.Status)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет заявку и освобождает все её слоты
func (s *Service) Cancel(ctx context.Context, id int64) error {
	s.logger.Info("Cancel: cancelling booking id=%d", id)

	released := int64(0)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d in status %s cannot be cancelled", id, booking.Status)
			return fmt.Errorf("%w: status is %s", ErrCannotCancel, booking.Status)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, domain.BookingCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - update error: %v", ErrInternal, err)
		}

		released, err = s.slotRepo.ReleaseByBookingID(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Cancel - release slots: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if released > 0 {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Cancel: cache invalidation failed: %v", err)
		}
	}

	s.logger.Info("Cancel: booking id=%d cancelled, %d slot(s) released", id, released)
	return nil
}
