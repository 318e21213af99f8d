package create_booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
)

var (
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Французские номера: +33 или 0, затем 9 цифр, допускаются разделители
	phoneRegexp = regexp.MustCompile(`^(?:\+33|0)[1-9](?:[\s.-]?[0-9]{2}){4}$`)
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return fmt.Errorf("%w: firstName is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.LastName) == "" {
		return fmt.Errorf("%w: lastName is required", ErrInvalidInput)
	}

	if !emailRegexp.MatchString(req.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}

	if !phoneRegexp.MatchString(req.Phone) {
		return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	if err := validateLine(req.PrimaryService, "primaryService"); err != nil {
		return err
	}

	if len(req.SecondaryServices) > domain.MaxSecondaryLines {
		return fmt.Errorf("%w: too many secondary services (max %d)", ErrInvalidInput, domain.MaxSecondaryLines)
	}
	for i, line := range req.SecondaryServices {
		if err := validateLine(line, fmt.Sprintf("secondaryServices[%d]", i)); err != nil {
			return err
		}
	}

	if len(req.TimeSlots) == 0 {
		return fmt.Errorf("%w: at least one time slot is required", ErrInvalidInput)
	}
	if len(req.TimeSlots) > domain.MaxSelectedSlots {
		return fmt.Errorf("%w: too many time slots (max %d)", ErrInvalidInput, domain.MaxSelectedSlots)
	}

	if req.Message != nil && len(*req.Message) > domain.MaxMessageLength {
		return fmt.Errorf("%w: message is too long (max %d characters)", ErrInvalidInput, domain.MaxMessageLength)
	}

	if len(req.Photos) > domain.MaxPhotos {
		return fmt.Errorf("%w: too many photos (max %d)", ErrInvalidInput, domain.MaxPhotos)
	}

	return nil
}

// dropEmptyLines убирает дополнительные услуги с нулевым количеством
func dropEmptyLines(lines []RequestLine) []RequestLine {
	kept := make([]RequestLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity == 0 {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// validateLine проверяет одну строку заказа
func validateLine(line RequestLine, field string) error {
	if strings.TrimSpace(line.ServiceID) == "" {
		return fmt.Errorf("%w: %s.serviceId is required", ErrInvalidInput, field)
	}
	if line.Quantity < domain.MinQuantity || line.Quantity > domain.MaxQuantity {
		return fmt.Errorf("%w: %s.quantity must be between %d and %d",
			ErrInvalidInput, field, domain.MinQuantity, domain.MaxQuantity)
	}
	return nil
}

// validateSlots проверяет запрошенные слоты против дневного расписания
// и временных ограничений. Возвращает слоты с подставленным временем конца.
func validateSlots(reqSlots []RequestSlot, now time.Time, leadTimeMinutes int) ([]domain.BookingSlot, error) {
	seen := make(map[string]struct{}, len(reqSlots))
	slots := make([]domain.BookingSlot, 0, len(reqSlots))

	for _, rs := range reqSlots {
		if rs.Date.IsZero() {
			return nil, fmt.Errorf("%w: slot date is required", ErrInvalidInput)
		}
		if err := rs.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid slot startTime: %v", ErrInvalidInput, err)
		}

		window, ok := domain.WindowByStart(rs.StartTime)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a valid start time", ErrSlotNotInCatalog, rs.StartTime)
		}

		key := rs.Date.Format(domain.DateFormat) + "|" + rs.StartTime.String()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate slot %s %s", ErrInvalidInput, rs.Date.Format(domain.DateFormat), rs.StartTime)
		}
		seen[key] = struct{}{}

		if isDateInPast(rs.Date, now) {
			return nil, fmt.Errorf("%w: %s", ErrSlotInPast, rs.Date.Format(domain.DateFormat))
		}

		// Слот в день заказа должен начинаться строго позже now+leadTime
		if isSameDay(rs.Date, now) {
			startMinutes, err := window.StartTime.Minutes()
			if err != nil {
				return nil, fmt.Errorf("%w: failed to calculate slot start: %v", ErrInternal, err)
			}
			slotStart := dateOnly(rs.Date).Add(time.Duration(startMinutes) * time.Minute)
			if !slotStart.After(now.Add(time.Duration(leadTimeMinutes) * time.Minute)) {
				return nil, fmt.Errorf("%w: must book more than %d minutes in advance", ErrTooLateToBook, leadTimeMinutes)
			}
		}

		slots = append(slots, domain.BookingSlot{
			Date:      dateOnly(rs.Date),
			StartTime: window.StartTime,
			EndTime:   window.EndTime,
		})
	}

	return slots, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
