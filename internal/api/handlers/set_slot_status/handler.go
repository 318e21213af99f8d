package set_slot_status

import (
	"errors"
	"net/http"

	"github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers"
	setSlotStatus "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/set_slot_status"
)

const (
	msgInvalidRequestBody = "corps de requête invalide"
	msgInvalidDateOrTime  = "format de date ou d'heure invalide"
	msgInvalidInput       = "données invalides"
	msgSlotNotInCatalog   = "créneau horaire invalide"
	msgInvalidTransition  = "ce créneau ne peut pas changer de statut"
)

type Handler struct {
	useCase SetSlotStatusUseCase
	logger  Logger
}

func NewHandler(useCase SetSlotStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/time-slots (staff)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SetSlotStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /time-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /time-slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, setSlotStatus.ErrSlotNotInCatalog):
			h.logger.Warn("POST /time-slots - Slot not in catalog: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotNotInCatalog)

		case errors.Is(err, setSlotStatus.ErrInvalidTransition):
			h.logger.Warn("POST /time-slots - Invalid transition: date=%s, time=%s, status=%s",
				req.Date, req.StartTime, req.Status)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, setSlotStatus.ErrInvalidInput):
			h.logger.Warn("POST /time-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /time-slots - Failed to set slot status: date=%s, time=%s, error=%v",
				req.Date, req.StartTime, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /time-slots - Slot status set: date=%s, time=%s, status=%s",
		req.Date, req.StartTime, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
