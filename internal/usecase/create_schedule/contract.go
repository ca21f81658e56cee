package create_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/integrations/directoryservice"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	AddSchedules(ctx context.Context, doctorID, clinicID string, slotDurationMinutes int, windows []domain.ScheduleWindow) ([]*domain.RecurringSchedule, error)
}

// DirectoryClient клиент справочника врачей (nil - справочник не используется)
type DirectoryClient interface {
	GetDoctorWithGracefulDegradation(ctx context.Context, doctorID string) (*directoryservice.Doctor, error)
}

// GenerationTrigger постановка генерации слотов в очередь, не ждет завершения генерации
type GenerationTrigger interface {
	Enqueue(ctx context.Context, req domain.GenerationRequest) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
