package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// ListAvailable свободные слоты врача с даты today, опционально на конкретную дату
	ListAvailable(ctx context.Context, doctorID string, today time.Time, date *time.Time) ([]*domain.Slot, error)
}

// AvailabilityCache кэш ответов
// Set принимает Version, взятый до чтения из БД, и отбрасывает список, устаревший за это время
type AvailabilityCache interface {
	Version() uint64
	Get(doctorID string, date *time.Time, today time.Time) ([]*domain.Slot, bool)
	Set(doctorID string, date *time.Time, today time.Time, version uint64, slots []*domain.Slot) bool
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
