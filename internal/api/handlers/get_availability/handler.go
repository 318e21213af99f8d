package get_availability

import (
	"net/http"

	"github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidDate = "format de date invalide, AAAA-MM-JJ attendu"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	// includeBlocked включен у админского инстанса хендлера:
	// публичная выдача никогда не показывает заблокированные слоты
	includeBlocked bool
	logger         Logger
}

func NewHandler(useCase GetAvailabilityUseCase, includeBlocked bool, logger Logger) *Handler {
	return &Handler{
		useCase:        useCase,
		includeBlocked: includeBlocked,
		logger:         logger,
	}
}

// Handle GET /api/v1/time-slots
// Query params: startDate (optional, YYYY-MM-DD), endDate (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	useCaseReq, err := ToUseCaseRequest(query.Get("startDate"), query.Get("endDate"), h.includeBlocked)
	if err != nil {
		h.logger.Warn("GET /time-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.logger.Error("GET /time-slots - Failed to get availability: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /time-slots - Availability retrieved: %d slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
