package get_availability

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	getAvailability "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/get_availability"
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	ID        *int64  `json:"id,omitempty"`
	Date      string  `json:"date"`      // "2026-09-15"
	StartTime string  `json:"startTime"` // "09:00"
	EndTime   string  `json:"endTime"`   // "11:00"
	Status    string  `json:"status"`
	Bookable  bool    `json:"bookable"`
	Notes     *string `json:"notes,omitempty"`
}

// AvailabilityResponse HTTP модель ответа
type AvailabilityResponse struct {
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Slots     []SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает запрос use case из query параметров
func ToUseCaseRequest(startDateStr, endDateStr string, includeBlocked bool) (*getAvailability.Request, error) {
	req := &getAvailability.Request{IncludeBlocked: includeBlocked}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = endDate
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			ID:        s.ID,
			Date:      s.Date.Format(domain.DateFormat),
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Status:    string(s.Status),
			Bookable:  s.Bookable,
			Notes:     s.Notes,
		}
	}

	return &AvailabilityResponse{
		StartDate: resp.StartDate.Format(domain.DateFormat),
		EndDate:   resp.EndDate.Format(domain.DateFormat),
		Slots:     slots,
	}
}
