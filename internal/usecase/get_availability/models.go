package get_availability

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// Request модель запроса на получение доступности слотов
type Request struct {
	StartDate      time.Time // Начало диапазона (опционально; прошлые даты прижимаются к сегодня)
	EndDate        time.Time // Конец диапазона включительно (опционально; по умолчанию — горизонт от начала)
	IncludeBlocked bool      // Включать ли заблокированные слоты (админский режим)
}

// Response модель ответа с материализованной доступностью.
// Сериализуется в JSON как есть — в этом виде ответ живет в кэше.
type Response struct {
	StartDate time.Time `json:"startDate"` // Начало диапазона после прижатия
	EndDate   time.Time `json:"endDate"`   // Конец диапазона после прижатия
	Slots     []Slot    `json:"slots"`     // Слоты в хронологическом порядке
}

// Slot модель временного слота в ответе
type Slot struct {
	ID        *int64            `json:"id,omitempty"` // nil для синтетических слотов без записи в БД
	Date      time.Time         `json:"date"`
	StartTime types.TimeString  `json:"startTime"`
	EndTime   types.TimeString  `json:"endTime"`
	Status    domain.SlotStatus `json:"status"`
	Bookable  bool              `json:"bookable"`
	Notes     *string           `json:"notes,omitempty"` // Только в админском режиме
}
