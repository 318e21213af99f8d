package bookings

import (
	"context"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SetClientNotified(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов.
// Жизненный цикл заявки тянет за собой статусы её слотов.
type SlotRepository interface {
	ConfirmByBookingID(ctx context.Context, bookingID int64) (int64, error)
	ReleaseByBookingID(ctx context.Context, bookingID int64) (int64, error)
}

// Cache интерфейс кэша доступности
type Cache interface {
	Invalidate(ctx context.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
