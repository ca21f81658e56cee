package create_schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ClinicID) == "" {
		return fmt.Errorf("%w: clinicId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.DoctorID) == "" {
		return fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}

	if req.SlotDurationMinutes < domain.MinSlotDurationMinutes || req.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if len(req.Windows) == 0 {
		return fmt.Errorf("%w: at least one window is required", ErrInvalidInput)
	}

	if len(req.Windows) > domain.MaxWindowsPerSchedule {
		return fmt.Errorf("%w: too many windows, max %d", ErrInvalidInput, domain.MaxWindowsPerSchedule)
	}

	for i, w := range req.Windows {
		if err := validateWindow(w); err != nil {
			return fmt.Errorf("%w (window %d)", err, i)
		}
	}

	return nil
}

func validateWindow(w Window) error {
	if w.DayOfWeek < int(time.Sunday) || w.DayOfWeek > int(time.Saturday) {
		return fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	if err := w.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if err := w.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	// Окно короче длительности слота допустимо, слотов по нему просто не будет
	if !w.EndTime.IsAfter(w.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	return nil
}

func toDomainWindows(windows []Window) []domain.ScheduleWindow {
	out := make([]domain.ScheduleWindow, 0, len(windows))
	for _, w := range windows {
		out = append(out, domain.ScheduleWindow{
			DayOfWeek: time.Weekday(w.DayOfWeek),
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}
	return out
}
