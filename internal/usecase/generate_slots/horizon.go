package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

const (
	HorizonModeMonth   = "month"
	HorizonModeRolling = "rolling"
)

// Horizon диапазон дат [From, To] включительно, для которого материализуются слоты
type Horizon struct {
	From time.Time
	To   time.Time
}

// CurrentMonth горизонт от сегодняшнего дня до конца текущего месяца
func CurrentMonth(now time.Time) Horizon {
	today := domain.DateOnly(now)
	firstOfNext := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return Horizon{From: today, To: firstOfNext.AddDate(0, 0, -1)}
}

// Rolling горизонт из days дней начиная с сегодняшнего
func Rolling(now time.Time, days int) Horizon {
	today := domain.DateOnly(now)
	return Horizon{From: today, To: today.AddDate(0, 0, days-1)}
}

// Validate проверяет, что горизонт не пустой
func (h Horizon) Validate() error {
	if h.From.IsZero() || h.To.IsZero() {
		return fmt.Errorf("%w: horizon bounds are required", ErrInvalidInput)
	}
	if domain.DateOnly(h.To).Before(domain.DateOnly(h.From)) {
		return fmt.Errorf("%w: horizon end %s is before start %s",
			ErrInvalidInput, domain.FormatDate(h.To), domain.FormatDate(h.From))
	}
	return nil
}

// Days количество дней в горизонте
func (h Horizon) Days() int {
	return int(domain.DateOnly(h.To).Sub(domain.DateOnly(h.From)).Hours()/24) + 1
}

func (h Horizon) String() string {
	return domain.FormatDate(h.From) + ".." + domain.FormatDate(h.To)
}

// HorizonPolicy правило выбора горизонта для очередного прогона
type HorizonPolicy struct {
	Mode string
	Days int
}

// At горизонт для момента now
func (p HorizonPolicy) At(now time.Time) Horizon {
	if p.Mode == HorizonModeMonth {
		return CurrentMonth(now)
	}
	days := p.Days
	if days <= 0 {
		days = domain.DefaultHorizonDays
	}
	return Rolling(now, days)
}
