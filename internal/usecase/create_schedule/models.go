package create_schedule

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Request модель запроса на создание расписания врача
type Request struct {
	ActorClinicID       string // Клиника администратора из identity
	ClinicID            string
	DoctorID            string
	SlotDurationMinutes int
	Windows             []Window
}

// Window недельное окно приема
type Window struct {
	DayOfWeek int // 0 = воскресенье ... 6 = суббота
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response модель ответа с созданными расписаниями
type Response struct {
	Schedules []Schedule
	// GenerationQueued false, если поставить генерацию в очередь не удалось;
	// слоты появятся после периодического прогона
	GenerationQueued bool
}

// Schedule созданное расписание
type Schedule struct {
	ID                  string
	ClinicID            string
	DoctorID            string
	DayOfWeek           int
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	CreatedAt           time.Time
}
