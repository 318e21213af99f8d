package models

import (
	"errors"
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса заявки
type UpdateStatusRequest struct {
	Status         string `json:"status"`
	ClientNotified *bool  `json:"clientNotified,omitempty"`
}

// ListBookingsRequest запрос на получение списка заявок
type ListBookingsRequest struct {
	StartDate *time.Time `json:"startDate,omitempty"` // Начало периода по дате создания (опционально)
	EndDate   *time.Time `json:"endDate,omitempty"`   // Конец периода по дате создания (опционально)
	Status    *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ServiceLineResponse одна строка заказа в ответе
type ServiceLineResponse struct {
	ServiceID       string  `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
}

// BookingSlotResponse один слот заявки в ответе
type BookingSlotResponse struct {
	Date      string `json:"date"`      // "2026-09-15"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "11:00"
}

// BookingResponse ответ с данными заявки
type BookingResponse struct {
	ID int64 `json:"id"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`

	PrimaryService    ServiceLineResponse   `json:"primaryService"`
	SecondaryServices []ServiceLineResponse `json:"secondaryServices"`
	TimeSlots         []BookingSlotResponse `json:"timeSlots"`

	TotalAmount     float64 `json:"totalAmount"`
	DiscountPercent float64 `json:"discountPercent"`

	Message *string  `json:"message,omitempty"`
	Photos  []string `json:"photos,omitempty"`

	Status         string `json:"status"`
	ClientNotified bool   `json:"clientNotified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком заявок
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	secondaries := make([]ServiceLineResponse, len(b.SecondaryServices))
	for i, line := range b.SecondaryServices {
		secondaries[i] = fromDomainLine(line)
	}

	slots := make([]BookingSlotResponse, len(b.TimeSlots))
	for i, s := range b.TimeSlots {
		slots[i] = BookingSlotResponse{
			Date:      s.Date.Format(domain.DateFormat),
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		}
	}

	return &BookingResponse{
		ID:                b.ID,
		FirstName:         b.FirstName,
		LastName:          b.LastName,
		Email:             b.Email,
		Phone:             b.Phone,
		Address:           b.Address,
		PrimaryService:    fromDomainLine(b.PrimaryService),
		SecondaryServices: secondaries,
		TimeSlots:         slots,
		TotalAmount:       b.TotalAmount,
		DiscountPercent:   b.DiscountPercent,
		Message:           b.Message,
		Photos:            b.Photos,
		Status:            string(b.Status),
		ClientNotified:    b.ClientNotified,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			result = append(result, *resp)
		}
	}
	return &BookingListResponse{Bookings: result}
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func fromDomainLine(line domain.ServiceLine) ServiceLineResponse {
	return ServiceLineResponse{
		ServiceID:       line.ServiceID,
		ServiceName:     line.ServiceName,
		Quantity:        line.Quantity,
		UnitPrice:       line.UnitPrice,
		DiscountPercent: line.DiscountPercent,
	}
}
