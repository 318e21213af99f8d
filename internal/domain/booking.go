package domain

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingContacted BookingStatus = "contacted"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// IsValid returns true if the status is one of the known booking statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingContacted, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// bookingTransitions допустимые переходы статусов заявки (меняются только персоналом)
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingContacted, BookingConfirmed, BookingCancelled},
	BookingContacted: {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

// CanTransitionTo reports whether a booking in status s may move to target
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ServiceLine is a denormalized snapshot of one ordered service.
// Name and unit price are copied from the catalog at booking time so
// historical bookings stay accurate if catalog prices change later.
// JSON-теги фиксируют формат JSONB-снимка в БД.
type ServiceLine struct {
	ServiceID       string  `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"` // 0 для основной услуги
}

// BookingSlot is a denormalized copy of one requested time slot
type BookingSlot struct {
	Date      time.Time        `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// Booking represents a client's reservation request
type Booking struct {
	ID int64

	// Контактные данные клиента
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string

	PrimaryService    ServiceLine
	SecondaryServices []ServiceLine
	TimeSlots         []BookingSlot

	// TotalAmount фиксируется в момент создания заявки (Pricing Engine)
	// и никогда не пересчитывается из актуальных цен каталога.
	TotalAmount     float64
	DiscountPercent float64

	Message *string
	Photos  []string

	Status         BookingStatus
	ClientNotified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its slots
func (b *Booking) IsActive() bool {
	return b.Status != BookingCancelled && b.Status != BookingCompleted
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status != BookingCancelled && b.Status != BookingCompleted
}

// BookingsFilter фильтр для выборки заявок (период и статус опциональны)
type BookingsFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *BookingStatus
}
