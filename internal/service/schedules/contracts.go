package schedules

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/queryspec"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	ListByClinic(ctx context.Context, clinicID string) ([]*domain.RecurringSchedule, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotsFilter, page queryspec.Page) ([]*domain.Slot, error)
	Count(ctx context.Context, filter domain.SlotsFilter) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
