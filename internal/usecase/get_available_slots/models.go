package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	DoctorID string     // ID врача
	Date     *time.Time // Дата (опционально, nil - все даты начиная с сегодняшней)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	DoctorID string
	Date     *time.Time
	Slots    []Slot // Отсортированы по дате и времени начала
}

// Slot модель свободного слота
type Slot struct {
	ID        string
	ClinicID  string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}
