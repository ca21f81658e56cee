package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/metrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/pgerr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/ptr"
)

// UseCase use case бронирования слота
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	cache           AvailabilityCache
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		cache:           cache,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute бронирует слот для пациента
// Чтение слота, создание записи и перевод слота в "забронирован" выполняются в одной
// сериализуемой транзакции. Из нескольких конкурентных попыток успешна ровно одна,
// остальные получают ErrSlotAlreadyBooked
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: slot=%s, patient=%s", req.SlotID, req.PatientID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		uc.observe(metrics.BookingResultInvalid)
		return nil, err
	}

	var (
		slot    *domain.Slot
		created *domain.Appointment
	)

	// 2. Транзакция бронирования
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем слот с блокировкой строки
		s, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// 2.2. Быстрый отказ для уже занятого слота
		if s.IsBooked {
			return ErrSlotAlreadyBooked
		}

		// 2.3. Создаем запись (уникальность slot_id защищает от двойной брони)
		a, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			SlotID:    s.ID,
			PatientID: ptr.Ptr(req.PatientID),
			Reason:    req.Reason,
		})
		if err != nil {
			switch {
			case errors.Is(err, appointmentRepo.ErrSlotAlreadyBooked):
				return ErrSlotAlreadyBooked
			case errors.Is(err, appointmentRepo.ErrSlotNotFound):
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		// 2.4. Переводим слот в состояние "забронирован"
		if err := uc.slotRepo.MarkBooked(txCtx, s.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotAlreadyBooked) {
				return ErrSlotAlreadyBooked
			}
			return fmt.Errorf("%w: failed to mark slot booked: %w", ErrInternal, err)
		}

		slot, created = s, a
		return nil
	})

	if err != nil {
		return nil, uc.classify(req, err)
	}

	// 3. Свободные слоты врача изменились
	if uc.cache != nil {
		uc.cache.InvalidateDoctor(slot.DoctorID)
	}
	uc.observe(metrics.BookingResultSuccess)

	uc.logger.Info("BookSlot: successfully created appointment id=%s for slot=%s", created.ID, slot.ID)

	return &Response{
		AppointmentID: created.ID,
		SlotID:        slot.ID,
		PatientID:     req.PatientID,
		Reason:        created.Reason,
		ClinicID:      slot.ClinicID,
		DoctorID:      slot.DoctorID,
		Date:          slot.Date,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		CreatedAt:     created.CreatedAt,
	}, nil
}

// classify приводит ошибку транзакции к таксономии use case
// Конфликт, обнаруженный базой (уникальность, сериализация), становится ErrSlotAlreadyBooked,
// в том числе если он всплыл только на COMMIT
func (uc *UseCase) classify(req *Request, err error) error {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		uc.logger.Warn("BookSlot: slot id=%s not found", req.SlotID)
		uc.observe(metrics.BookingResultNotFound)
		return ErrSlotNotFound

	case errors.Is(err, ErrSlotAlreadyBooked), pgerr.IsConflict(err):
		uc.logger.Warn("BookSlot: slot id=%s already booked (patient=%s)", req.SlotID, req.PatientID)
		uc.observe(metrics.BookingResultConflict)
		return ErrSlotAlreadyBooked

	default:
		uc.logger.Error("BookSlot: failed to book slot id=%s: %v", req.SlotID, err)
		uc.observe(metrics.BookingResultError)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObserveBooking(result)
	}
}
