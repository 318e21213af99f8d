package list_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/api/handlers"
	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/internal/service/bookings"
	"github.com/ccs-paris/CCS-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidDate   = "format de date invalide, AAAA-MM-JJ attendu"
	msgInvalidStatus = "statut de réservation invalide"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings (staff)
// Query params: startDate, endDate (optional, YYYY-MM-DD), status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &models.ListBookingsRequest{}

	if s := query.Get("startDate"); s != "" {
		startDate, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			h.logger.Warn("GET /bookings - Invalid startDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &startDate
	}

	if s := query.Get("endDate"); s != "" {
		endDate, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			h.logger.Warn("GET /bookings - Invalid endDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &endDate
	}

	if s := query.Get("status"); s != "" {
		req.Status = &s
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid status filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Retrieved %d bookings", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
