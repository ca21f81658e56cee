package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/pgerr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"a.id",
	"a.slot_id",
	"a.patient_id",
	"a.reason",
	"a.created_at",
	"s.schedule_id",
	"rs.clinic_id",
	"rs.doctor_id",
	"s.slot_date",
	"s.start_time",
	"s.end_time",
	"s.is_booked",
}

// Repository репозиторий для работы с записями на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func selectAppointments() squirrel.SelectBuilder {
	return psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		Join("slots s ON s.id = a.slot_id").
		Join("recurring_schedules rs ON rs.id = s.schedule_id")
}

// Create создает запись на прием
// Уникальный индекс по slot_id гарантирует не более одной записи на слот:
// при его нарушении возвращается ErrSlotAlreadyBooked
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns("id", "slot_id", "patient_id", "reason").
		Values(appointment.ID, appointment.SlotID, appointment.PatientID, appointment.Reason).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appointment.CreatedAt)
	switch {
	case pgerr.IsUniqueViolation(err):
		return nil, fmt.Errorf("%w: slot_id=%s", ErrSlotAlreadyBooked, appointment.SlotID)
	case pgerr.IsForeignKeyViolation(err):
		return nil, fmt.Errorf("%w: slot_id=%s", ErrSlotNotFound, appointment.SlotID)
	case err != nil:
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return appointment, nil
}

// GetByID получает запись на прием вместе со слотом
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectAppointments().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || pgerr.IsInvalidTextInput(err) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appointment, nil
}

// ListByPatient возвращает записи пациента, самые поздние по дате слота первыми
func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectAppointments().
		Where(squirrel.Eq{"a.patient_id": patientID}).
		OrderBy("s.slot_date DESC", "s.start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPatient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPatient - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByPatient - scan appointment: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByPatient - rows error: %w", ErrExecQuery, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var s domain.Slot
	var patientID sql.NullString

	err := row.Scan(
		&a.ID,
		&a.SlotID,
		&patientID,
		&a.Reason,
		&a.CreatedAt,
		&s.ScheduleID,
		&s.ClinicID,
		&s.DoctorID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.IsBooked,
	)
	if err != nil {
		return nil, err
	}

	if patientID.Valid {
		a.PatientID = &patientID.String
	}
	s.ID = a.SlotID
	s.Date = domain.DateOnly(s.Date)
	a.Slot = &s

	return &a, nil
}
