package book_slot

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	SlotID    string // ID слота
	PatientID string // ID пациента из identity service
	Reason    string // Причина обращения (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID string
	SlotID        string
	PatientID     string
	Reason        string

	// Данные слота
	ClinicID  string
	DoctorID  string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	CreatedAt time.Time
}
