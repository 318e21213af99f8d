package domain

import (
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// SlotStatus represents the status of a time slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBlocked   SlotStatus = "blocked"
	SlotPending   SlotStatus = "pending"
	SlotConfirmed SlotStatus = "confirmed"
)

// IsValid returns true if the status is one of the known slot statuses
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotAvailable, SlotBlocked, SlotPending, SlotConfirmed:
		return true
	}
	return false
}

// slotTransitions допустимые переходы статусов слота.
// available -> blocked|pending (админ блокирует / клиент бронирует)
// blocked   -> available       (админ разблокирует)
// pending   -> confirmed|available (админ подтверждает / освобождает)
// confirmed -> available       (отмена после подтверждения)
var slotTransitions = map[SlotStatus][]SlotStatus{
	SlotAvailable: {SlotBlocked, SlotPending},
	SlotBlocked:   {SlotAvailable},
	SlotPending:   {SlotConfirmed, SlotAvailable},
	SlotConfirmed: {SlotAvailable},
}

// CanTransitionTo reports whether a slot in status s may move to target
func (s SlotStatus) CanTransitionTo(target SlotStatus) bool {
	for _, allowed := range slotTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsOccupied returns true if the slot is held by a booking
func (s SlotStatus) IsOccupied() bool {
	return s == SlotPending || s == SlotConfirmed
}

// SlotRecord is a persisted override of a slot's default availability.
// Records are created lazily: either by staff blocking a slot or by the
// allocator claiming it for a booking. A missing record for a catalog
// (date, startTime) pair means the slot is implicitly available.
// Uniqueness key: (Date, StartTime).
type SlotRecord struct {
	ID        int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    SlotStatus
	BookingID *int64
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaterializedSlot is one entry of the live availability view: the catalog
// projected over a date range and merged with persisted overrides.
// Synthetic entries (no underlying record) carry a nil ID.
type MaterializedSlot struct {
	ID        *int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    SlotStatus
	BookingID *int64
}

// IsBookable returns true if the slot can still be selected by a client
func (s *MaterializedSlot) IsBookable() bool {
	return s.Status == SlotAvailable
}

// Period is the effective date range of an availability view after clamping
type Period struct {
	Start time.Time
	End   time.Time
}

// IsEmpty returns true for a zero-length period (end before start)
func (p Period) IsEmpty() bool {
	return p.End.Before(p.Start)
}
