package create_schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/integrations/directoryservice"
)

// UseCase use case для создания повторяющихся расписаний врача
type UseCase struct {
	scheduleRepo ScheduleRepository
	directory    DirectoryClient
	trigger      GenerationTrigger
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// directory может быть nil: тогда врач и клиника не сверяются со справочником
func NewUseCase(
	scheduleRepo ScheduleRepository,
	directory DirectoryClient,
	trigger GenerationTrigger,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo: scheduleRepo,
		directory:    directory,
		trigger:      trigger,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute сохраняет окна врача и ставит генерацию слотов в очередь
// Запрос не ждет генерации: ошибка постановки в очередь только логируется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSchedule: clinic=%s, doctor=%s, duration=%d, windows=%d",
		req.ClinicID, req.DoctorID, req.SlotDurationMinutes, len(req.Windows))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Администратор управляет только своей клиникой
	if req.ActorClinicID != req.ClinicID {
		uc.logger.Warn("CreateSchedule: admin of clinic=%s tried to manage clinic=%s", req.ActorClinicID, req.ClinicID)
		return nil, ErrForbidden
	}

	// 3. Сверяем врача со справочником
	if err := uc.checkDoctor(ctx, req); err != nil {
		return nil, err
	}

	// 4. Сохраняем окна одной транзакцией
	var created []*domain.RecurringSchedule
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = uc.scheduleRepo.AddSchedules(txCtx, req.DoctorID, req.ClinicID, req.SlotDurationMinutes, toDomainWindows(req.Windows))
		return err
	})
	if err != nil {
		uc.logger.Error("CreateSchedule: failed to add schedules for doctor=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to add schedules: %v", ErrInternal, err)
	}

	ids := make([]string, 0, len(created))
	for _, s := range created {
		ids = append(ids, s.ID)
	}

	// 5. Генерация слотов асинхронно
	queued := true
	genReq := domain.GenerationRequest{
		ScheduleIDs: ids,
		Reason:      domain.GenerationReasonScheduleCreated,
		RequestedAt: uc.timeProvider.Now(),
	}
	if err := uc.trigger.Enqueue(ctx, genReq); err != nil {
		queued = false
		uc.logger.Warn("CreateSchedule: failed to enqueue slot generation for schedules=%v: %v", ids, err)
	}

	uc.logger.Info("CreateSchedule: created %d schedules for doctor=%s, generation queued=%t", len(created), req.DoctorID, queued)

	return &Response{
		Schedules:        toResponseSchedules(created),
		GenerationQueued: queued,
	}, nil
}

func (uc *UseCase) checkDoctor(ctx context.Context, req *Request) error {
	if uc.directory == nil {
		return nil
	}

	doctor, err := uc.directory.GetDoctorWithGracefulDegradation(ctx, req.DoctorID)
	switch {
	case err == nil:
	case errors.Is(err, directoryservice.ErrDoctorNotFound):
		uc.logger.Warn("CreateSchedule: doctor id=%s not found", req.DoctorID)
		return ErrDoctorNotFound
	case errors.Is(err, directoryservice.ErrServiceDegraded):
		uc.logger.Warn("CreateSchedule: directory unavailable, doctor id=%s accepted unchecked", req.DoctorID)
		return nil
	default:
		uc.logger.Error("CreateSchedule: failed to get doctor id=%s: %v", req.DoctorID, err)
		return fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	if doctor.ClinicID != req.ClinicID {
		uc.logger.Warn("CreateSchedule: doctor id=%s belongs to clinic=%s, not %s", req.DoctorID, doctor.ClinicID, req.ClinicID)
		return ErrForbidden
	}

	return nil
}

func toResponseSchedules(schedules []*domain.RecurringSchedule) []Schedule {
	out := make([]Schedule, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, Schedule{
			ID:                  s.ID,
			ClinicID:            s.ClinicID,
			DoctorID:            s.DoctorID,
			DayOfWeek:           int(s.DayOfWeek),
			StartTime:           s.StartTime,
			EndTime:             s.EndTime,
			SlotDurationMinutes: s.SlotDurationMinutes,
			CreatedAt:           s.CreatedAt,
		})
	}
	return out
}
