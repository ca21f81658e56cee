package slot

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/pgerr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/ptr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/queryspec"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

var slotRowColumns = []string{
	"id", "schedule_id", "clinic_id", "doctor_id", "slot_date",
	"start_time", "end_time", "is_booked", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), db, mock
}

func monday() time.Time {
	return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
}

func TestRepository_InsertIfAbsent(t *testing.T) {
	repo, _, mock := newRepo(t)

	slots := []*domain.Slot{
		{ID: "a", ScheduleID: "sch", Date: monday(), StartTime: "09:00", EndTime: "09:20"},
		{ID: "b", ScheduleID: "sch", Date: monday(), StartTime: "09:20", EndTime: "09:40"},
	}

	mock.ExpectExec(`INSERT INTO slots \(id,schedule_id,slot_date,start_time,end_time,is_booked\) VALUES .* ON CONFLICT \(schedule_id, slot_date, start_time\) DO NOTHING`).
		WithArgs(
			"a", "sch", "2026-10-19", "09:00", "09:20", false,
			"b", "sch", "2026-10-19", "09:20", "09:40", false,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.InsertIfAbsent(context.Background(), slots)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertIfAbsent_Empty(t *testing.T) {
	repo, _, mock := newRepo(t)

	created, err := repo.InsertIfAbsent(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_InTransactionLocksRow(t *testing.T) {
	repo, db, mock := newRepo(t)

	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	mock.ExpectQuery(`SELECT .* FROM slots s JOIN recurring_schedules rs ON rs.id = s.schedule_id WHERE s.id = \$1 FOR UPDATE OF s`).
		WithArgs("slot-1").
		WillReturnRows(sqlmock.NewRows(slotRowColumns).
			AddRow("slot-1", "sch", "clinic", "doctor", monday(), "09:00:00", "09:20:00", false, time.Now(), time.Now()))

	slot, err := repo.GetByID(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, "doctor", slot.DoctorID)
	assert.Equal(t, types.TimeString("09:00"), slot.StartTime)
	assert.Equal(t, types.TimeString("09:20"), slot.EndTime)
	assert.False(t, slot.IsBooked)
	assert.Equal(t, monday(), slot.Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM slots s`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(slotRowColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	mock.ExpectQuery(`SELECT .* FROM slots s`).
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: pgerr.InvalidTextInput})

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrSlotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkBooked(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(`UPDATE slots SET is_booked = \$1, updated_at = NOW\(\) WHERE id = \$2 AND is_booked = \$3`).
		WithArgs(true, "slot-1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkBooked(context.Background(), "slot-1"))

	mock.ExpectExec(`UPDATE slots`).
		WithArgs(true, "slot-1", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkBooked(context.Background(), "slot-1"), ErrSlotAlreadyBooked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListAvailable(t *testing.T) {
	repo, _, mock := newRepo(t)
	today := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	date := monday()

	mock.ExpectQuery(`WHERE rs.doctor_id = \$1 AND s.is_booked = \$2 AND s.slot_date >= \$3 AND s.slot_date = \$4 ORDER BY s.slot_date, s.start_time`).
		WithArgs("doctor", false, "2026-10-17", "2026-10-19").
		WillReturnRows(sqlmock.NewRows(slotRowColumns).
			AddRow("s1", "sch", "clinic", "doctor", monday(), "09:00:00", "09:20:00", false, nil, nil).
			AddRow("s2", "sch", "clinic", "doctor", monday(), "09:20:00", "09:40:00", false, nil, nil))

	slots, err := repo.ListAvailable(context.Background(), "doctor", today, &date)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "s1", slots[0].ID)
	assert.Equal(t, "s2", slots[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListAndCount(t *testing.T) {
	repo, _, mock := newRepo(t)
	filter := domain.SlotsFilter{ClinicID: "clinic", IsBooked: ptr.Ptr(true)}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM slots s JOIN recurring_schedules rs ON rs.id = s.schedule_id WHERE rs.clinic_id = \$1 AND s.is_booked = \$2`).
		WithArgs("clinic", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	mock.ExpectQuery(`WHERE rs.clinic_id = \$1 AND s.is_booked = \$2 ORDER BY s.slot_date, s.start_time, s.id LIMIT 5 OFFSET 5`).
		WithArgs("clinic", true).
		WillReturnRows(sqlmock.NewRows(slotRowColumns).
			AddRow("s6", "sch", "clinic", "doctor", monday(), "10:00:00", "10:20:00", true, nil, nil))

	slots, err := repo.List(context.Background(), filter, queryspec.NewPage(5, 5))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].IsBooked)
	require.NoError(t, mock.ExpectationsWereMet())
}
