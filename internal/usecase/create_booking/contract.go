package create_booking

import (
	"context"
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/internal/integrations/catalogservice"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, record *domain.SlotRecord) (*domain.SlotRecord, error)
	// GetByDateAndStart внутри транзакции берет блокировку строки (FOR UPDATE)
	GetByDateAndStart(ctx context.Context, date time.Time, startTime types.TimeString) (*domain.SlotRecord, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus, bookingID *int64) error
}

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг CMS
type CatalogServiceClient interface {
	ResolveUnitPrice(ctx context.Context, serviceID string) (*catalogservice.Service, float64, error)
	GetDiscountPercent(ctx context.Context) float64
}

// Cache интерфейс кэша доступности; после успешной заявки кэш сбрасывается
type Cache interface {
	Invalidate(ctx context.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
