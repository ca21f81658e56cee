package book_slot

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	bookSlot "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/book_slot"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	SlotID string `json:"slotId"`
	Reason string `json:"reason,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID        string `json:"id"`
	SlotID    string `json:"slotId"`
	PatientID string `json:"patientId"`
	Reason    string `json:"reason,omitempty"`
	ClinicID  string `json:"clinicId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	CreatedAt string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// ID пациента берется из identity, а не из тела запроса
func (r *BookSlotRequest) ToUseCaseRequest(patientID string) *bookSlot.Request {
	return &bookSlot.Request{
		SlotID:    r.SlotID,
		PatientID: patientID,
		Reason:    r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:        resp.AppointmentID,
		SlotID:    resp.SlotID,
		PatientID: resp.PatientID,
		Reason:    resp.Reason,
		ClinicID:  resp.ClinicID,
		DoctorID:  resp.DoctorID,
		Date:      domain.FormatDate(resp.Date),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}
