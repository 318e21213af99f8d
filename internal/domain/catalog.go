package domain

import "github.com/ccs-paris/CCS-SchedulingService/pkg/types"

// SlotWindow is one entry of the canonical daily schedule template
type SlotWindow struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// defaultWindows фиксированное дневное расписание: пять окон по 2 часа,
// 09:00–19:00. Задается при деплое, не хранится в БД.
var defaultWindows = []SlotWindow{
	{StartTime: "09:00", EndTime: "11:00"},
	{StartTime: "11:00", EndTime: "13:00"},
	{StartTime: "13:00", EndTime: "15:00"},
	{StartTime: "15:00", EndTime: "17:00"},
	{StartTime: "17:00", EndTime: "19:00"},
}

// DefaultWindows returns the catalog of daily bookable windows in
// chronological order. The returned slice is a copy.
func DefaultWindows() []SlotWindow {
	windows := make([]SlotWindow, len(defaultWindows))
	copy(windows, defaultWindows)
	return windows
}

// WindowByStart returns the catalog window starting at the given time,
// or false if no such window exists.
func WindowByStart(start types.TimeString) (SlotWindow, bool) {
	for _, w := range defaultWindows {
		if w.StartTime == start {
			return w, true
		}
	}
	return SlotWindow{}, false
}
