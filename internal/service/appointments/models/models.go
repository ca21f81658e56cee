package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// AppointmentResponse запись на прием вместе со слотом
type AppointmentResponse struct {
	ID        string        `json:"id"`
	SlotID    string        `json:"slotId"`
	PatientID *string       `json:"patientId"`
	Reason    string        `json:"reason,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	Slot      *SlotResponse `json:"slot,omitempty"`
}

// SlotResponse слот записи
type SlotResponse struct {
	ID        string `json:"id"`
	ClinicID  string `json:"clinicId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`      // "2026-10-19"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "09:20"
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в ответ
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:        a.ID,
		SlotID:    a.SlotID,
		PatientID: a.PatientID,
		Reason:    a.Reason,
		CreatedAt: a.CreatedAt,
	}
	if a.Slot != nil {
		resp.Slot = &SlotResponse{
			ID:        a.Slot.ID,
			ClinicID:  a.Slot.ClinicID,
			DoctorID:  a.Slot.DoctorID,
			Date:      domain.FormatDate(a.Slot.Date),
			StartTime: a.Slot.StartTime.String(),
			EndTime:   a.Slot.EndTime.String(),
		}
	}
	return resp
}

// FromDomainAppointmentList конвертирует список
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	out := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, a := range list {
		out.Appointments = append(out.Appointments, *FromDomainAppointment(a))
	}
	return out
}
