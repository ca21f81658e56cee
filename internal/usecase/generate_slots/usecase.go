package generate_slots

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

const defaultWorkers = 4

// UseCase use case генерации слотов из повторяющихся расписаний
type UseCase struct {
	scheduleRepo ScheduleRepository
	slotRepo     SlotRepository
	cache        AvailabilityCache
	metrics      Metrics
	policy       HorizonPolicy
	workers      int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	slotRepo SlotRepository,
	cache AvailabilityCache,
	metrics Metrics,
	policy HorizonPolicy,
	workers int,
	logger Logger,
) *UseCase {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &UseCase{
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		cache:        cache,
		metrics:      metrics,
		policy:       policy,
		workers:      workers,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute материализует слоты для горизонта
// Ошибка одного расписания не прерывает остальные: она попадает в Report.Failures,
// а уже вставленные слоты других расписаний сохраняются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Report, error) {
	started := uc.timeProvider.Now()

	// 1. Определяем горизонт
	horizon := uc.policy.At(started)
	if req.Horizon != nil {
		horizon = *req.Horizon
	}
	if err := horizon.Validate(); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GenerateSlots: horizon=%s, schedules=%d (0 = all)", horizon, len(req.ScheduleIDs))

	// 2. Загружаем расписания
	schedules, err := uc.loadSchedules(ctx, req.ScheduleIDs)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to load schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to load schedules: %v", ErrInternal, err)
	}

	report := &Report{Horizon: horizon, Schedules: len(schedules)}

	// 3. Обрабатываем расписания параллельно, каждое независимо
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(uc.workers)

	// Воркеры не возвращают ошибок: сбой расписания попадает в report.Failures
	for _, schedule := range schedules {
		g.Go(func() error {
			created, skipped, err := uc.generateForSchedule(ctx, schedule, horizon)

			mu.Lock()
			defer mu.Unlock()

			report.SlotsCreated += created
			report.SlotsSkipped += skipped
			if err != nil {
				report.Failures = append(report.Failures, ScheduleFailure{ScheduleID: schedule.ID, Err: err})
			}
			return nil
		})
	}
	g.Wait()

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].ScheduleID < report.Failures[j].ScheduleID
	})

	// 4. Новые слоты меняют ответы на запросы доступности
	if report.SlotsCreated > 0 && uc.cache != nil {
		uc.cache.Purge()
	}

	duration := uc.timeProvider.Now().Sub(started)
	if uc.metrics != nil {
		uc.metrics.ObserveSlotGeneration(report.SlotsCreated, report.SlotsSkipped, len(report.Failures), duration)
	}

	for _, f := range report.Failures {
		uc.logger.Error("GenerateSlots: schedule id=%s failed: %v", f.ScheduleID, f.Err)
	}
	uc.logger.Info("GenerateSlots: done in %s, schedules=%d, created=%d, skipped=%d, failed=%d",
		duration, report.Schedules, report.SlotsCreated, report.SlotsSkipped, len(report.Failures))

	return report, nil
}

func (uc *UseCase) loadSchedules(ctx context.Context, ids []string) ([]*domain.RecurringSchedule, error) {
	if len(ids) == 0 {
		return uc.scheduleRepo.ListAll(ctx)
	}
	return uc.scheduleRepo.ListByIDs(ctx, ids)
}

func (uc *UseCase) generateForSchedule(
	ctx context.Context,
	schedule *domain.RecurringSchedule,
	horizon Horizon,
) (created, skipped int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	slots, err := ExpandSchedule(schedule, horizon)
	if err != nil {
		return 0, 0, fmt.Errorf("expand: %w", err)
	}
	if len(slots) == 0 {
		return 0, 0, nil
	}

	created, err = uc.slotRepo.InsertIfAbsent(ctx, slots)
	if err != nil {
		return created, 0, fmt.Errorf("insert slots: %w", err)
	}

	return created, int64(len(slots)) - created, nil
}
