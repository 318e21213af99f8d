package create_booking

import (
	"errors"
	"net/http"

	"github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers"
	createBooking "github.com/ccs-paris/CCS-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "corps de requête invalide"
	msgInvalidDateOrTime  = "format de date ou d'heure invalide"
	msgInvalidInput       = "données de réservation invalides"
	msgServiceNotFound    = "service introuvable"
	msgPriceNotConfigured = "le prix de ce service n'est pas disponible en ligne"
	msgSlotNotInCatalog   = "créneau horaire invalide"
	msgSlotInPast         = "la date sélectionnée est déjà passée"
	msgTooLateToBook      = "ce créneau ne peut plus être réservé aujourd'hui"
	msgSlotConflict       = "un ou plusieurs créneaux sélectionnés ne sont plus disponibles"
	msgUpstreamDown       = "service momentanément indisponible, veuillez réessayer"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *createBooking.SlotsConflictError

		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /bookings - Slot conflict: email=%s, slots=%d", req.Email, len(conflict.Slots))
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Error:            msgSlotConflict,
				ConflictingSlots: FromDomainSlots(conflict.Slots),
			})

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: email=%s", req.Email)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: email=%s", req.Email)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrPriceNotConfigured):
			h.logger.Warn("POST /bookings - Price not configured: email=%s", req.Email)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPriceNotConfigured)

		case errors.Is(err, createBooking.ErrUpstreamUnavailable):
			h.logger.Error("POST /bookings - Catalog unavailable: email=%s", req.Email)
			handlers.RespondError(w, http.StatusBadGateway, msgUpstreamDown)

		case errors.Is(err, createBooking.ErrSlotNotInCatalog):
			h.logger.Warn("POST /bookings - Slot not in catalog: email=%s", req.Email)
			handlers.RespondBadRequest(w, msgSlotNotInCatalog)

		case errors.Is(err, createBooking.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in past: email=%s", req.Email)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: email=%s", req.Email)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: email=%s, error=%v", req.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, total=%.2f",
		result.ID, result.TotalAmount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
