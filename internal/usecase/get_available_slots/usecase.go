package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// UseCase use case для получения свободных слотов врача
type UseCase struct {
	slotRepo     SlotRepository
	cache        AvailabilityCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, cache AvailabilityCache, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает свободные слоты врача: не забронированные, с датой не раньше сегодняшней
// и, если дата задана, только на эту дату. Пустой результат возвращается как ErrNoSlotsAvailable
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	dateStr := "any"
	if req.Date != nil {
		dateStr = domain.FormatDate(*req.Date)
	}
	uc.logger.Info("GetAvailableSlots: doctor=%s, date=%s", req.DoctorID, dateStr)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Сегодняшняя дата
	today := domain.DateOnly(uc.timeProvider.Now())

	// 3. Кэш, затем БД. Версию берем до запроса, чтобы не закэшировать список,
	// прочитанный до параллельного бронирования
	slots, cached := uc.cache.Get(req.DoctorID, req.Date, today)
	if !cached {
		version := uc.cache.Version()

		var err error
		slots, err = uc.slotRepo.ListAvailable(ctx, req.DoctorID, today, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list slots for doctor=%s: %v", req.DoctorID, err)
			return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		if !uc.cache.Set(req.DoctorID, req.Date, today, version, slots) {
			uc.logger.Info("GetAvailableSlots: slots for doctor=%s changed during read, not cached", req.DoctorID)
		}
	}

	// 4. Фильтруем и сортируем
	available := filterAvailable(slots, today, req.Date)
	if len(available) == 0 {
		uc.logger.Info("GetAvailableSlots: no available slots for doctor=%s, date=%s", req.DoctorID, dateStr)
		return nil, ErrNoSlotsAvailable
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for doctor=%s (cached=%t)", len(available), req.DoctorID, cached)

	return &Response{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Slots:    toResponseSlots(available),
	}, nil
}
