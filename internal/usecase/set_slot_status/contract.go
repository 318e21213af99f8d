package set_slot_status

import (
	"context"
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, record *domain.SlotRecord) (*domain.SlotRecord, error)
	// GetByDateAndStart внутри транзакции берет блокировку строки (FOR UPDATE)
	GetByDateAndStart(ctx context.Context, date time.Time, startTime types.TimeString) (*domain.SlotRecord, error)
	UpdateStatusAndNotes(ctx context.Context, id int64, status domain.SlotStatus, notes *string) error
}

// Cache интерфейс кэша доступности; после изменения слота кэш сбрасывается
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
