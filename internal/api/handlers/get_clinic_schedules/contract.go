package get_clinic_schedules

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules/models"
)

type ScheduleService interface {
	GetClinicSchedules(ctx context.Context, clinicID string, identity domain.Identity) (*models.ScheduleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
