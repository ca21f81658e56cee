package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments/models"
)

// Service сервис чтения записей на прием
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Видеть запись может пациент-владелец или администратор клиники, в которой находится слот
func (s *Service) GetByID(ctx context.Context, id string, identity domain.Identity) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, identity.UserID)

	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !canRead(appointment, identity) {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", identity.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByPatient записи пациента, новые сначала
func (s *Service) ListByPatient(ctx context.Context, patientID string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByPatient: fetching appointments for patient=%s", patientID)

	if strings.TrimSpace(patientID) == "" {
		return nil, fmt.Errorf("%w: patient id is required", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.ListByPatient(ctx, patientID)
	if err != nil {
		s.logger.Error("ListByPatient: repository error for patient=%s: %v", patientID, err)
		return nil, fmt.Errorf("%w: ListByPatient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByPatient: fetched %d appointments for patient=%s", len(list), patientID)
	return models.FromDomainAppointmentList(list), nil
}

func canRead(a *domain.Appointment, identity domain.Identity) bool {
	if a.BelongsTo(identity.UserID) {
		return true
	}
	return a.Slot != nil && identity.IsClinicAdminOf(a.Slot.ClinicID)
}
