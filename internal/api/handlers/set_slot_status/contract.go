package set_slot_status

import (
	"context"

	setSlotStatus "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/set_slot_status"
)

type SetSlotStatusUseCase interface {
	Execute(ctx context.Context, req *setSlotStatus.Request) (*setSlotStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
