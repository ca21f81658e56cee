package schedules

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules/models"
)

// Service сервис просмотра расписаний и слотов клиники
// Доступен только администраторам этой клиники
type Service struct {
	scheduleRepo ScheduleRepository
	slotRepo     SlotRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(scheduleRepo ScheduleRepository, slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		logger:       logger,
	}
}

// GetClinicSchedules повторяющиеся расписания клиники
func (s *Service) GetClinicSchedules(ctx context.Context, clinicID string, identity domain.Identity) (*models.ScheduleListResponse, error) {
	s.logger.Info("GetClinicSchedules: clinic=%s, user=%s", clinicID, identity.UserID)

	if err := s.checkAccess(clinicID, identity); err != nil {
		return nil, err
	}

	list, err := s.scheduleRepo.ListByClinic(ctx, clinicID)
	if err != nil {
		s.logger.Error("GetClinicSchedules: repository error for clinic=%s: %v", clinicID, err)
		return nil, fmt.Errorf("%w: GetClinicSchedules - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedules(list), nil
}

// GetClinicSlots страница слотов клиники с фильтрацией по врачу, дате и статусу брони
func (s *Service) GetClinicSlots(ctx context.Context, req *models.GetClinicSlotsRequest, identity domain.Identity) (*models.SlotPageResponse, error) {
	s.logger.Info("GetClinicSlots: clinic=%s, user=%s, limit=%d, offset=%d", req.ClinicID, identity.UserID, req.Limit, req.Offset)

	if err := s.checkAccess(req.ClinicID, identity); err != nil {
		return nil, err
	}

	filter, page := req.ToDomainFilter()

	total, err := s.slotRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("GetClinicSlots: count error for clinic=%s: %v", req.ClinicID, err)
		return nil, fmt.Errorf("%w: GetClinicSlots - count: %v", ErrInternal, err)
	}

	var list []*domain.Slot
	if page.Offset < total {
		list, err = s.slotRepo.List(ctx, filter, page)
		if err != nil {
			s.logger.Error("GetClinicSlots: list error for clinic=%s: %v", req.ClinicID, err)
			return nil, fmt.Errorf("%w: GetClinicSlots - list: %v", ErrInternal, err)
		}
	}

	return models.FromDomainSlotPage(list, total, page), nil
}

func (s *Service) checkAccess(clinicID string, identity domain.Identity) error {
	if strings.TrimSpace(clinicID) == "" {
		return fmt.Errorf("%w: clinic id is required", ErrInvalidInput)
	}
	if !identity.IsClinicAdminOf(clinicID) {
		s.logger.Warn("access denied for user=%s to clinic=%s", identity.UserID, clinicID)
		return ErrAccessDenied
	}
	return nil
}
