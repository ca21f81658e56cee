package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	ListAll(ctx context.Context) ([]*domain.RecurringSchedule, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.RecurringSchedule, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	InsertIfAbsent(ctx context.Context, slots []*domain.Slot) (int64, error)
}

// AvailabilityCache кэш свободных слотов, сбрасывается после появления новых слотов
type AvailabilityCache interface {
	Purge()
}

// Metrics метрики генерации
type Metrics interface {
	ObserveSlotGeneration(created, skipped int64, failures int, duration time.Duration)
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
