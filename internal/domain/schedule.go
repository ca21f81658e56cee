package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// RecurringSchedule weekly availability window of one doctor at one clinic
type RecurringSchedule struct {
	ID                  string
	ClinicID            string
	DoctorID            string
	DayOfWeek           time.Weekday // 0 = воскресенье
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	CreatedAt           time.Time
}

// ScheduleWindow one weekday window passed when schedules are added
type ScheduleWindow struct {
	DayOfWeek time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// OccursOn returns true if the schedule applies to the given date
func (s *RecurringSchedule) OccursOn(date time.Time) bool {
	return date.Weekday() == s.DayOfWeek
}

// WindowMinutes length of the [StartTime, EndTime) window
func (s *RecurringSchedule) WindowMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}

// SlotsPerOccurrence number of full slots in one occurrence, the trailing remainder is dropped
func (s *RecurringSchedule) SlotsPerOccurrence() int {
	if s.SlotDurationMinutes <= 0 || s.WindowMinutes() <= 0 {
		return 0
	}
	return s.WindowMinutes() / s.SlotDurationMinutes
}
