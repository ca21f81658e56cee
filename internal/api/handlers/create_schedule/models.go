package create_schedule

import (
	"fmt"
	"time"

	createSchedule "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/create_schedule"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// CreateScheduleRequest HTTP request model
type CreateScheduleRequest struct {
	DoctorID            string          `json:"doctorId"`
	SlotDurationMinutes int             `json:"slotDurationMinutes"`
	Windows             []WindowRequest `json:"windows"`
}

// WindowRequest недельное окно приема
type WindowRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "13:00"
}

// CreateScheduleResponse HTTP response model
type CreateScheduleResponse struct {
	Schedules        []ScheduleResponse `json:"schedules"`
	GenerationQueued bool               `json:"generationQueued"`
}

// ScheduleResponse созданное расписание
type ScheduleResponse struct {
	ID                  string `json:"id"`
	ClinicID            string `json:"clinicId"`
	DoctorID            string `json:"doctorId"`
	DayOfWeek           int    `json:"dayOfWeek"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	CreatedAt           string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом времени)
func (r *CreateScheduleRequest) ToUseCaseRequest(clinicID, actorClinicID string) (*createSchedule.Request, error) {
	windows := make([]createSchedule.Window, 0, len(r.Windows))
	for i, w := range r.Windows {
		start, err := types.NewTimeStringFromString(w.StartTime)
		if err != nil {
			return nil, fmt.Errorf("window %d startTime: %w", i, err)
		}
		end, err := types.NewTimeStringFromString(w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("window %d endTime: %w", i, err)
		}
		windows = append(windows, createSchedule.Window{
			DayOfWeek: w.DayOfWeek,
			StartTime: start,
			EndTime:   end,
		})
	}

	return &createSchedule.Request{
		ActorClinicID:       actorClinicID,
		ClinicID:            clinicID,
		DoctorID:            r.DoctorID,
		SlotDurationMinutes: r.SlotDurationMinutes,
		Windows:             windows,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSchedule.Response) *CreateScheduleResponse {
	out := &CreateScheduleResponse{
		Schedules:        make([]ScheduleResponse, 0, len(resp.Schedules)),
		GenerationQueued: resp.GenerationQueued,
	}
	for _, s := range resp.Schedules {
		out.Schedules = append(out.Schedules, ScheduleResponse{
			ID:                  s.ID,
			ClinicID:            s.ClinicID,
			DoctorID:            s.DoctorID,
			DayOfWeek:           s.DayOfWeek,
			StartTime:           s.StartTime.String(),
			EndTime:             s.EndTime.String(),
			SlotDurationMinutes: s.SlotDurationMinutes,
			CreatedAt:           s.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
