package domain

import "time"

// Appointment represents a booking of exactly one slot
type Appointment struct {
	ID     string
	SlotID string

	// PatientID is nil when the patient identity was removed; history is kept
	PatientID *string
	Reason    string
	CreatedAt time.Time

	// Slot is filled when the appointment is loaded together with its slot
	Slot *Slot
}

// BelongsTo returns true if the appointment was made by the given patient
func (a *Appointment) BelongsTo(patientID string) bool {
	return a.PatientID != nil && *a.PatientID == patientID
}
