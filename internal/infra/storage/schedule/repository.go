package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/pgerr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/queryspec"
)

var scheduleColumns = []string{
	"id",
	"clinic_id",
	"doctor_id",
	"day_of_week",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"created_at",
}

// Repository репозиторий для работы с повторяющимися расписаниями врачей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// AddSchedules сохраняет окна одного врача одним INSERT
// Бизнес-валидацию выполняет вызывающая сторона
func (r *Repository) AddSchedules(
	ctx context.Context,
	doctorID, clinicID string,
	slotDurationMinutes int,
	windows []domain.ScheduleWindow,
) ([]*domain.RecurringSchedule, error) {
	if len(windows) == 0 {
		return nil, ErrEmptyWindows
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("recurring_schedules").
		Columns("id", "clinic_id", "doctor_id", "day_of_week", "start_time", "end_time", "slot_duration_minutes")

	schedules := make([]*domain.RecurringSchedule, 0, len(windows))
	byID := make(map[string]*domain.RecurringSchedule, len(windows))
	for _, w := range windows {
		s := &domain.RecurringSchedule{
			ID:                  uuid.NewString(),
			ClinicID:            clinicID,
			DoctorID:            doctorID,
			DayOfWeek:           w.DayOfWeek,
			StartTime:           w.StartTime,
			EndTime:             w.EndTime,
			SlotDurationMinutes: slotDurationMinutes,
		}
		insert = insert.Values(s.ID, s.ClinicID, s.DoctorID, int(s.DayOfWeek), s.StartTime, s.EndTime, s.SlotDurationMinutes)
		schedules = append(schedules, s)
		byID[s.ID] = s
	}

	query, args, err := insert.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddSchedules - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: AddSchedules - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var createdAt time.Time
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: AddSchedules - scan returning: %v", ErrScanRow, err)
		}
		if s, ok := byID[id]; ok {
			s.CreatedAt = createdAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: AddSchedules - rows error: %w", ErrExecQuery, err)
	}

	return schedules, nil
}

// GetByID получает расписание по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.RecurringSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("recurring_schedules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || pgerr.IsInvalidTextInput(err) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan schedule: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListAll возвращает все расписания (вход генератора слотов)
func (r *Repository) ListAll(ctx context.Context) ([]*domain.RecurringSchedule, error) {
	return r.list(ctx, "ListAll", queryspec.New().OrderBy("created_at", "id"))
}

// ListByIDs возвращает расписания с указанными ID, отсутствующие пропускаются
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]*domain.RecurringSchedule, error) {
	if len(ids) == 0 {
		return []*domain.RecurringSchedule{}, nil
	}
	return r.list(ctx, "ListByIDs", queryspec.New().
		Where(squirrel.Eq{"id": ids}).
		OrderBy("created_at", "id"))
}

// ListByClinic возвращает расписания клиники
func (r *Repository) ListByClinic(ctx context.Context, clinicID string) ([]*domain.RecurringSchedule, error) {
	return r.list(ctx, "ListByClinic", queryspec.New().
		Where(squirrel.Eq{"clinic_id": clinicID}).
		OrderBy("doctor_id", "day_of_week", "start_time"))
}

func (r *Repository) list(ctx context.Context, op string, spec queryspec.Spec) ([]*domain.RecurringSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := spec.Apply(psqlbuilder.Select(scheduleColumns...).From("recurring_schedules")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	schedules := make([]*domain.RecurringSchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan schedule: %v", ErrScanRow, op, err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrExecQuery, op, err)
	}

	return schedules, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.RecurringSchedule, error) {
	var s domain.RecurringSchedule
	var dayOfWeek int

	err := row.Scan(
		&s.ID,
		&s.ClinicID,
		&s.DoctorID,
		&dayOfWeek,
		&s.StartTime,
		&s.EndTime,
		&s.SlotDurationMinutes,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.DayOfWeek = time.Weekday(dayOfWeek)
	return &s, nil
}
