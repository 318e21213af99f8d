package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

func TestSlotStatusTransitions(t *testing.T) {
	tests := []struct {
		from    SlotStatus
		to      SlotStatus
		allowed bool
	}{
		{SlotAvailable, SlotBlocked, true},
		{SlotAvailable, SlotPending, true},
		{SlotAvailable, SlotConfirmed, false},
		{SlotBlocked, SlotAvailable, true},
		{SlotBlocked, SlotPending, false},
		{SlotPending, SlotConfirmed, true},
		{SlotPending, SlotAvailable, true},
		{SlotPending, SlotBlocked, false},
		{SlotConfirmed, SlotAvailable, true},
		{SlotConfirmed, SlotBlocked, false},
		{SlotConfirmed, SlotPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSlotStatusIsOccupied(t *testing.T) {
	assert.False(t, SlotAvailable.IsOccupied())
	assert.False(t, SlotBlocked.IsOccupied())
	assert.True(t, SlotPending.IsOccupied())
	assert.True(t, SlotConfirmed.IsOccupied())
}

func TestSlotStatusIsValid(t *testing.T) {
	assert.True(t, SlotAvailable.IsValid())
	assert.True(t, SlotBlocked.IsValid())
	assert.False(t, SlotStatus("unknown").IsValid())
	assert.False(t, SlotStatus("").IsValid())
}

func TestDefaultWindows(t *testing.T) {
	windows := DefaultWindows()
	require.Len(t, windows, 5)

	// Окна идут подряд без пересечений с 09:00 до 19:00
	assert.Equal(t, types.TimeString("09:00"), windows[0].StartTime)
	assert.Equal(t, types.TimeString("19:00"), windows[len(windows)-1].EndTime)
	for i := 1; i < len(windows); i++ {
		assert.Equal(t, windows[i-1].EndTime, windows[i].StartTime)
	}

	// Возвращается копия, мутации не протекают в каталог
	windows[0].StartTime = "08:00"
	assert.Equal(t, types.TimeString("09:00"), DefaultWindows()[0].StartTime)
}

func TestWindowByStart(t *testing.T) {
	window, ok := WindowByStart("13:00")
	require.True(t, ok)
	assert.Equal(t, types.TimeString("15:00"), window.EndTime)

	_, ok = WindowByStart("13:30")
	assert.False(t, ok)

	_, ok = WindowByStart("19:00")
	assert.False(t, ok)
}

func TestMaterializedSlotIsBookable(t *testing.T) {
	slot := &MaterializedSlot{Status: SlotAvailable}
	assert.True(t, slot.IsBookable())

	for _, status := range []SlotStatus{SlotBlocked, SlotPending, SlotConfirmed} {
		slot.Status = status
		assert.False(t, slot.IsBookable(), "status %s", status)
	}
}

func TestPeriodIsEmpty(t *testing.T) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, Period{Start: day, End: day}.IsEmpty())
	assert.False(t, Period{Start: day, End: day.AddDate(0, 0, 5)}.IsEmpty())
	assert.True(t, Period{Start: day, End: day.AddDate(0, 0, -1)}.IsEmpty())
}
