package get_clinic_slots

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules/models"
)

type SlotService interface {
	GetClinicSlots(ctx context.Context, req *models.GetClinicSlotsRequest, identity domain.Identity) (*models.SlotPageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
