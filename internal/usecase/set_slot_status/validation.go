package set_slot_status

import (
	"fmt"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Персонал управляет только доступностью: статусы pending и confirmed
// выставляются через жизненный цикл заявки, а не напрямую.
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Status != domain.SlotAvailable && req.Status != domain.SlotBlocked {
		return fmt.Errorf("%w: status must be %s or %s", ErrInvalidInput, domain.SlotAvailable, domain.SlotBlocked)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long (max %d characters)", ErrInvalidInput, domain.MaxNotesLength)
	}

	if _, ok := domain.WindowByStart(req.StartTime); !ok {
		return fmt.Errorf("%w: %s is not a valid start time", ErrSlotNotInCatalog, req.StartTime)
	}

	return nil
}
