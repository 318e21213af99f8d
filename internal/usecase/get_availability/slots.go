package get_availability

import (
	"fmt"
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// clampPeriod приводит запрошенный диапазон к эффективному окну доступности.
// Начало в прошлом прижимается к сегодня, пустой конец — горизонт от начала,
// конец за горизонтом обрезается. Конец раньше начала остается как есть:
// такой период пуст, и материализация вернет пустой список.
func clampPeriod(start, end, now time.Time, horizonDays int) domain.Period {
	today := dateOnly(now)

	effectiveStart := dateOnly(start)
	if start.IsZero() || effectiveStart.Before(today) {
		effectiveStart = today
	}

	horizonEnd := effectiveStart.AddDate(0, 0, horizonDays-1)

	effectiveEnd := dateOnly(end)
	if end.IsZero() || effectiveEnd.After(horizonEnd) {
		effectiveEnd = horizonEnd
	}

	return domain.Period{Start: effectiveStart, End: effectiveEnd}
}

// materializeRange проецирует дневное расписание на диапазон дат и
// накладывает персистентные записи слотов. Записи сопоставляются по ключу
// (дата, время начала); дата без записи дает синтетический доступный слот.
func materializeRange(
	period domain.Period,
	records []*domain.SlotRecord,
	includeBlocked bool,
	now time.Time,
	leadTimeMinutes int,
) ([]Slot, error) {
	slots := make([]Slot, 0)
	if period.IsEmpty() {
		return slots, nil
	}

	overrides := make(map[string]*domain.SlotRecord, len(records))
	for _, rec := range records {
		overrides[slotKey(rec.Date, rec.StartTime)] = rec
	}

	// Слоты на сегодня отсекаются по минимальному запасу до начала:
	// окно остается, только если начинается строго позже now+leadTime.
	// Сравнение в абсолютном времени, секунды учитываются
	cutoff := now.Add(time.Duration(leadTimeMinutes) * time.Minute)

	for date := period.Start; !date.After(period.End); date = date.AddDate(0, 0, 1) {
		for _, window := range domain.DefaultWindows() {
			if isSameDay(date, now) {
				startMinutes, err := window.StartTime.Minutes()
				if err != nil {
					return nil, err
				}
				if !date.Add(time.Duration(startMinutes) * time.Minute).After(cutoff) {
					continue
				}
			}

			slot := Slot{
				Date:      date,
				StartTime: window.StartTime,
				EndTime:   window.EndTime,
				Status:    domain.SlotAvailable,
				Bookable:  true,
			}

			if rec, ok := overrides[slotKey(date, window.StartTime)]; ok {
				slot.ID = &rec.ID
				slot.EndTime = rec.EndTime
				slot.Status = rec.Status
				slot.Bookable = rec.Status == domain.SlotAvailable
				if includeBlocked {
					slot.Notes = rec.Notes
				}
			}

			if slot.Status == domain.SlotBlocked && !includeBlocked {
				continue
			}

			slots = append(slots, slot)
		}
	}

	return slots, nil
}

// slotKey ключ сопоставления записи и окна расписания
func slotKey(date time.Time, start types.TimeString) string {
	return fmt.Sprintf("%s|%s", date.Format(domain.DateFormat), start)
}

// cacheKey ключ кэша для эффективного диапазона и режима выдачи
func cacheKey(period domain.Period, includeBlocked bool) string {
	return fmt.Sprintf("availability:%s:%s:%t",
		period.Start.Format(domain.DateFormat), period.End.Format(domain.DateFormat), includeBlocked)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
