package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/queryspec"
)

// GetClinicSlotsRequest запрос на листинг слотов клиники
type GetClinicSlotsRequest struct {
	ClinicID string
	DoctorID *string    // Фильтр по врачу (опционально)
	Date     *time.Time // Конкретная дата (опционально)
	IsBooked *bool      // Фильтр по статусу брони (опционально)
	Limit    int
	Offset   int
}

// ToDomainFilter конвертирует request в domain фильтр и страницу
func (r *GetClinicSlotsRequest) ToDomainFilter() (domain.SlotsFilter, queryspec.Page) {
	return domain.SlotsFilter{
		ClinicID: r.ClinicID,
		DoctorID: r.DoctorID,
		Date:     r.Date,
		IsBooked: r.IsBooked,
	}, queryspec.NewPage(r.Limit, r.Offset)
}

// ScheduleResponse повторяющееся расписание
type ScheduleResponse struct {
	ID                  string    `json:"id"`
	ClinicID            string    `json:"clinicId"`
	DoctorID            string    `json:"doctorId"`
	DayOfWeek           int       `json:"dayOfWeek"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	CreatedAt           time.Time `json:"createdAt"`
}

// ScheduleListResponse список расписаний клиники
type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}

// SlotResponse слот клиники
type SlotResponse struct {
	ID         string `json:"id"`
	ScheduleID string `json:"scheduleId"`
	DoctorID   string `json:"doctorId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	IsBooked   bool   `json:"isBooked"`
}

// SlotPageResponse страница слотов
type SlotPageResponse struct {
	Slots   []SlotResponse `json:"slots"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasNext bool           `json:"hasNext"`
}

// FromDomainSchedules конвертирует список расписаний
func FromDomainSchedules(list []*domain.RecurringSchedule) *ScheduleListResponse {
	out := &ScheduleListResponse{
		Schedules: make([]ScheduleResponse, 0, len(list)),
		Total:     len(list),
	}
	for _, s := range list {
		out.Schedules = append(out.Schedules, ScheduleResponse{
			ID:                  s.ID,
			ClinicID:            s.ClinicID,
			DoctorID:            s.DoctorID,
			DayOfWeek:           int(s.DayOfWeek),
			StartTime:           s.StartTime.String(),
			EndTime:             s.EndTime.String(),
			SlotDurationMinutes: s.SlotDurationMinutes,
			CreatedAt:           s.CreatedAt,
		})
	}
	return out
}

// FromDomainSlotPage конвертирует страницу слотов
func FromDomainSlotPage(list []*domain.Slot, total int, page queryspec.Page) *SlotPageResponse {
	out := &SlotPageResponse{
		Slots:   make([]SlotResponse, 0, len(list)),
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasNext: page.HasNext(total),
	}
	for _, s := range list {
		out.Slots = append(out.Slots, SlotResponse{
			ID:         s.ID,
			ScheduleID: s.ScheduleID,
			DoctorID:   s.DoctorID,
			Date:       domain.FormatDate(s.Date),
			StartTime:  s.StartTime.String(),
			EndTime:    s.EndTime.String(),
			IsBooked:   s.IsBooked,
		})
	}
	return out
}
