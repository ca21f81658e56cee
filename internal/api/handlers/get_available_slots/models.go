package get_available_slots

import (
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	DoctorID string         `json:"doctorId"`
	Date     *string        `json:"date,omitempty"`
	Slots    []SlotResponse `json:"slots"`
}

// SlotResponse свободный слот
type SlotResponse struct {
	ID        string `json:"id"`
	ClinicID  string `json:"clinicId"`
	Date      string `json:"date"`      // "2026-10-19"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "09:20"
}

// ToUseCaseRequest собирает запрос use case; пустая дата означает все даты начиная с сегодня
func ToUseCaseRequest(doctorID, dateStr string) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{DoctorID: doctorID}
	if dateStr == "" {
		return req, nil
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	req.Date = &date
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		DoctorID: resp.DoctorID,
		Slots:    make([]SlotResponse, 0, len(resp.Slots)),
	}
	if resp.Date != nil {
		d := domain.FormatDate(*resp.Date)
		out.Date = &d
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			ID:        s.ID,
			ClinicID:  s.ClinicID,
			Date:      domain.FormatDate(s.Date),
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		})
	}
	return out
}
