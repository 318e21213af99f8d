package create_booking

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// RequestLine одна строка заказа: услуга каталога и количество.
// Цена клиентом не передается — она всегда разрешается из каталога.
type RequestLine struct {
	ServiceID string
	Quantity  int
}

// RequestSlot один запрошенный временной слот
type RequestSlot struct {
	Date      time.Time
	StartTime types.TimeString
}

// Request модель запроса на создание заявки
type Request struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string

	PrimaryService    RequestLine
	SecondaryServices []RequestLine
	TimeSlots         []RequestSlot

	Message *string
	Photos  []string

	// TotalAmount сумма, которую посчитал клиент. Носит только
	// диагностический характер: сервер всегда пересчитывает итог сам.
	TotalAmount *float64
}

// Response модель ответа с созданной заявкой
type Response struct {
	ID int64

	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string

	PrimaryService    domain.ServiceLine
	SecondaryServices []domain.ServiceLine
	TimeSlots         []domain.BookingSlot

	TotalAmount     float64
	DiscountPercent float64

	Message *string
	Photos  []string

	Status domain.BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
