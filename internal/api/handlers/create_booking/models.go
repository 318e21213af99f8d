package create_booking

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	createBooking "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/create_booking"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// ServiceLineRequest одна строка заказа в HTTP запросе
type ServiceLineRequest struct {
	ServiceID string `json:"serviceId"`
	Quantity  int    `json:"quantity"`
}

// TimeSlotRequest один слот в HTTP запросе
type TimeSlotRequest struct {
	Date      string `json:"date"`      // "2026-09-15"
	StartTime string `json:"startTime"` // "09:00"
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`

	PrimaryService    ServiceLineRequest   `json:"primaryService"`
	SecondaryServices []ServiceLineRequest `json:"secondaryServices,omitempty"`
	TimeSlots         []TimeSlotRequest    `json:"timeSlots"`

	Message *string  `json:"message,omitempty"`
	Photos  []string `json:"photos,omitempty"`

	TotalAmount *float64 `json:"totalAmount,omitempty"`
}

// ServiceLineResponse одна строка заказа в HTTP ответе
type ServiceLineResponse struct {
	ServiceID       string  `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
}

// TimeSlotResponse один слот в HTTP ответе
type TimeSlotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID int64 `json:"id"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`

	PrimaryService    ServiceLineResponse   `json:"primaryService"`
	SecondaryServices []ServiceLineResponse `json:"secondaryServices"`
	TimeSlots         []TimeSlotResponse    `json:"timeSlots"`

	TotalAmount     float64 `json:"totalAmount"`
	DiscountPercent float64 `json:"discountPercent"`

	Message *string  `json:"message,omitempty"`
	Photos  []string `json:"photos,omitempty"`

	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ConflictResponse тело ответа 409: какие именно слоты заняты
type ConflictResponse struct {
	Error            string             `json:"error"`
	ConflictingSlots []TimeSlotResponse `json:"conflictingSlots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	slots := make([]createBooking.RequestSlot, 0, len(r.TimeSlots))
	for _, ts := range r.TimeSlots {
		date, err := time.Parse(domain.DateFormat, ts.Date)
		if err != nil {
			return nil, err
		}
		startTime, err := types.NewTimeStringFromString(ts.StartTime)
		if err != nil {
			return nil, err
		}
		slots = append(slots, createBooking.RequestSlot{Date: date, StartTime: startTime})
	}

	secondaries := make([]createBooking.RequestLine, 0, len(r.SecondaryServices))
	for _, line := range r.SecondaryServices {
		secondaries = append(secondaries, createBooking.RequestLine{
			ServiceID: line.ServiceID,
			Quantity:  line.Quantity,
		})
	}

	return &createBooking.Request{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		PrimaryService: createBooking.RequestLine{
			ServiceID: r.PrimaryService.ServiceID,
			Quantity:  r.PrimaryService.Quantity,
		},
		SecondaryServices: secondaries,
		TimeSlots:         slots,
		Message:           r.Message,
		Photos:            r.Photos,
		TotalAmount:       r.TotalAmount,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	secondaries := make([]ServiceLineResponse, len(resp.SecondaryServices))
	for i, line := range resp.SecondaryServices {
		secondaries[i] = fromDomainLine(line)
	}

	return &BookingResponse{
		ID:                resp.ID,
		FirstName:         resp.FirstName,
		LastName:          resp.LastName,
		Email:             resp.Email,
		Phone:             resp.Phone,
		Address:           resp.Address,
		PrimaryService:    fromDomainLine(resp.PrimaryService),
		SecondaryServices: secondaries,
		TimeSlots:         FromDomainSlots(resp.TimeSlots),
		TotalAmount:       resp.TotalAmount,
		DiscountPercent:   resp.DiscountPercent,
		Message:           resp.Message,
		Photos:            resp.Photos,
		Status:            string(resp.Status),
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainSlots конвертирует слоты domain в HTTP модели
func FromDomainSlots(slots []domain.BookingSlot) []TimeSlotResponse {
	result := make([]TimeSlotResponse, len(slots))
	for i, s := range slots {
		result[i] = TimeSlotResponse{
			Date:      s.Date.Format(domain.DateFormat),
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		}
	}
	return result
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
