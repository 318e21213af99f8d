package set_slot_status

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	setSlotStatus "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/set_slot_status"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// SetSlotStatusRequest HTTP request model
type SetSlotStatusRequest struct {
	Date      string  `json:"date"`      // "2026-09-15"
	StartTime string  `json:"startTime"` // "09:00"
	Status    string  `json:"status"`    // "available" | "blocked"
	Notes     *string `json:"notes,omitempty"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	ID        *int64  `json:"id,omitempty"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SetSlotStatusRequest) ToUseCaseRequest() (*setSlotStatus.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &setSlotStatus.Request{
		Date:      date,
		StartTime: startTime,
		Status:    domain.SlotStatus(r.Status),
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *setSlotStatus.Response) *SlotResponse {
	return &SlotResponse{
		ID:        resp.ID,
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		Status:    string(resp.Status),
		Notes:     resp.Notes,
	}
}
