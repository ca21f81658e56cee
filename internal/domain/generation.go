package domain

import "time"

// Причины запуска генерации слотов
const (
	GenerationReasonScheduleCreated = "schedule.created"
	GenerationReasonManual          = "manual"
	GenerationReasonPeriodic        = "periodic"
)

// GenerationRequest request to materialize slots
// Empty ScheduleIDs means all schedules
type GenerationRequest struct {
	ScheduleIDs []string  `json:"scheduleIds,omitempty"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}
