package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/pgerr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/queryspec"
)

// insertBatchSize ограничивает число строк в одном INSERT
const insertBatchSize = 500

var slotColumns = []string{
	"s.id",
	"s.schedule_id",
	"rs.clinic_id",
	"rs.doctor_id",
	"s.slot_date",
	"s.start_time",
	"s.end_time",
	"s.is_booked",
	"s.created_at",
	"s.updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func selectSlots() squirrel.SelectBuilder {
	return psqlbuilder.Select(slotColumns...).
		From("slots s").
		Join("recurring_schedules rs ON rs.id = s.schedule_id")
}

// InsertIfAbsent вставляет слоты, пропуская те, чей ключ (schedule_id, slot_date, start_time) уже существует
// Существующие строки (в том числе забронированные) не изменяются
// Возвращает количество реально созданных слотов
func (r *Repository) InsertIfAbsent(ctx context.Context, slots []*domain.Slot) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var created int64
	for start := 0; start < len(slots); start += insertBatchSize {
		end := min(start+insertBatchSize, len(slots))

		insert := psqlbuilder.Insert("slots").
			Columns("id", "schedule_id", "slot_date", "start_time", "end_time", "is_booked")
		for _, s := range slots[start:end] {
			insert = insert.Values(s.ID, s.ScheduleID, domain.FormatDate(s.Date), s.StartTime, s.EndTime, false)
		}

		query, args, err := insert.
			Suffix("ON CONFLICT (schedule_id, slot_date, start_time) DO NOTHING").
			ToSql()
		if err != nil {
			return created, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return created, fmt.Errorf("%w: InsertIfAbsent - execute insert: %w", ErrExecQuery, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return created, fmt.Errorf("%w: InsertIfAbsent - get rows affected: %w", ErrExecQuery, err)
		}
		created += affected
	}

	return created, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до ее завершения
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectSlots().Where(squirrel.Eq{"s.id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF s")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || pgerr.IsInvalidTextInput(err) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// MarkBooked переводит слот в состояние "забронирован" через compare-and-set
// Если слот уже забронирован (0 затронутых строк), возвращает ErrSlotAlreadyBooked
func (r *Repository) MarkBooked(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_booked", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_booked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotAlreadyBooked
	}

	return nil
}

// ListAvailable возвращает свободные слоты врача начиная с today
// Если date задана, возвращает слоты только на эту дату
func (r *Repository) ListAvailable(ctx context.Context, doctorID string, today time.Time, date *time.Time) ([]*domain.Slot, error) {
	spec := queryspec.New().
		Where(squirrel.Eq{"rs.doctor_id": doctorID}).
		Where(squirrel.Eq{"s.is_booked": false}).
		Where(squirrel.GtOrEq{"s.slot_date": domain.FormatDate(today)}).
		OrderBy("s.slot_date", "s.start_time")

	if date != nil {
		spec = spec.Where(squirrel.Eq{"s.slot_date": domain.FormatDate(*date)})
	}

	return r.list(ctx, "ListAvailable", spec)
}

// List возвращает страницу слотов клиники с фильтрацией
func (r *Repository) List(ctx context.Context, filter domain.SlotsFilter, page queryspec.Page) ([]*domain.Slot, error) {
	spec := filterSpec(filter).
		OrderBy("s.slot_date", "s.start_time", "s.id").
		Paginate(page)

	return r.list(ctx, "List", spec)
}

// Count возвращает количество слотов, подходящих под фильтр
func (r *Repository) Count(ctx context.Context, filter domain.SlotsFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := filterSpec(filter).ApplyFilter(
		psqlbuilder.Select("COUNT(*)").
			From("slots s").
			Join("recurring_schedules rs ON rs.id = s.schedule_id"),
	).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %w", ErrScanRow, err)
	}

	return total, nil
}

func filterSpec(filter domain.SlotsFilter) queryspec.Spec {
	spec := queryspec.New().Where(squirrel.Eq{"rs.clinic_id": filter.ClinicID})

	if filter.DoctorID != nil {
		spec = spec.Where(squirrel.Eq{"rs.doctor_id": *filter.DoctorID})
	}
	if filter.Date != nil {
		spec = spec.Where(squirrel.Eq{"s.slot_date": domain.FormatDate(*filter.Date)})
	}
	if filter.IsBooked != nil {
		spec = spec.Where(squirrel.Eq{"s.is_booked": *filter.IsBooked})
	}

	return spec
}

func (r *Repository) list(ctx context.Context, op string, spec queryspec.Spec) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := spec.Apply(selectSlots()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, op, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrExecQuery, op, err)
	}

	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ScheduleID,
		&s.ClinicID,
		&s.DoctorID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.IsBooked,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Date = domain.DateOnly(s.Date)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
