package generate_slots

import (
	"errors"
	"fmt"
)

// Request запрос на генерацию слотов
type Request struct {
	ScheduleIDs []string // Пустой список означает все расписания
	Horizon     *Horizon // Если nil, горизонт берется из политики
}

// ScheduleFailure ошибка генерации одного расписания
type ScheduleFailure struct {
	ScheduleID string
	Err        error
}

func (f ScheduleFailure) Error() string {
	return fmt.Sprintf("schedule %s: %v", f.ScheduleID, f.Err)
}

func (f ScheduleFailure) Unwrap() error {
	return f.Err
}

// Report итог прогона генерации
type Report struct {
	Horizon      Horizon
	Schedules    int   // Количество обработанных расписаний
	SlotsCreated int64 // Новые слоты
	SlotsSkipped int64 // Слоты, которые уже существовали
	Failures     []ScheduleFailure
}

// HasFailures были ли ошибки по отдельным расписаниям
func (r *Report) HasFailures() bool {
	return len(r.Failures) > 0
}

// Err объединяет ошибки по расписаниям, nil если их не было
func (r *Report) Err() error {
	if !r.HasFailures() {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return fmt.Errorf("%w: %d schedule(s): %w", ErrScheduleFailed, len(r.Failures), errors.Join(errs...))
}
