package create_booking

import (
	"errors"
	"fmt"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrPriceNotConfigured возвращается, когда у услуги нет разрешимой цены
	ErrPriceNotConfigured = errors.New("create_booking: service has no resolvable price")

	// ErrSlotNotInCatalog возвращается, когда запрошенное время не совпадает
	// ни с одним окном дневного расписания
	ErrSlotNotInCatalog = errors.New("create_booking: requested time is not a catalog slot")

	// ErrSlotInPast возвращается, когда дата слота уже прошла
	ErrSlotInPast = errors.New("create_booking: slot date is in the past")

	// ErrTooLateToBook возвращается при нарушении минимального запаса до начала слота
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotConflict возвращается, когда хотя бы один запрошенный слот занят.
	// Заявка атомарна: один конфликт отклоняет её целиком.
	ErrSlotConflict = errors.New("create_booking: slot is no longer available")

	// ErrUpstreamUnavailable возвращается, когда каталог CMS недоступен
	// и цену разрешить невозможно
	ErrUpstreamUnavailable = errors.New("create_booking: upstream service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// SlotsConflictError несет список слотов, из-за которых заявка отклонена.
// Разворачивается в ErrSlotConflict для errors.Is.
type SlotsConflictError struct {
	Slots []domain.BookingSlot
}

// Error возвращает текстовое описание конфликта
func (e *SlotsConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflicting slot(s)", ErrSlotConflict, len(e.Slots))
}

// Unwrap возвращает базовую ошибку конфликта
func (e *SlotsConflictError) Unwrap() error {
	return ErrSlotConflict
}
