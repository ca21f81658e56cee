package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Slot represents one dated bookable interval generated from a recurring schedule
type Slot struct {
	ID         string
	ScheduleID string

	// Denormalized from the owning schedule
	ClinicID string
	DoctorID string

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	IsBooked  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotKey natural key of a slot: at most one slot exists per key
type SlotKey struct {
	ScheduleID string
	Date       string
	StartTime  types.TimeString
}

// Key returns the natural key of the slot
func (s *Slot) Key() SlotKey {
	return SlotKey{
		ScheduleID: s.ScheduleID,
		Date:       FormatDate(s.Date),
		StartTime:  s.StartTime,
	}
}

// IsAvailable returns true if the slot is free and not in the past
func (s *Slot) IsAvailable(today time.Time) bool {
	return !s.IsBooked && !DateOnly(s.Date).Before(DateOnly(today))
}

// SlotsFilter фильтр для листинга слотов клиники
type SlotsFilter struct {
	ClinicID string     // Обязательный параметр
	DoctorID *string    // Фильтр по врачу (опционально)
	Date     *time.Time // Конкретная дата (опционально)
	IsBooked *bool      // Фильтр по статусу брони (опционально)
}
