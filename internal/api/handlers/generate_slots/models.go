package generate_slots

// GenerateSlotsRequest тело запроса; пустой список означает все расписания
type GenerateSlotsRequest struct {
	ScheduleIDs []string `json:"scheduleIds,omitempty"`
}

// GenerateSlotsResponse ответ о постановке заявки в очередь
type GenerateSlotsResponse struct {
	Queued      bool     `json:"queued"`
	ScheduleIDs []string `json:"scheduleIds,omitempty"`
}
