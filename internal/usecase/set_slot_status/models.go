package set_slot_status

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// Request модель запроса на смену статуса слота персоналом
type Request struct {
	Date      time.Time
	StartTime types.TimeString
	Status    domain.SlotStatus // Целевой статус: available или blocked
	Notes     *string           // Причина блокировки (опционально)
}

// Response модель ответа с итоговым состоянием слота
type Response struct {
	ID        *int64            // nil, если слот остался без записи в БД
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    domain.SlotStatus
	Notes     *string
}
