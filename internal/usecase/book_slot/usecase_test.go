package book_slot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/metrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/pgerr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

func freeSlot() domain.Slot {
	return domain.Slot{
		ID:         "slot-1",
		ScheduleID: "sch-1",
		ClinicID:   "clinic-1",
		DoctorID:   "doctor-1",
		Date:       time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		StartTime:  types.MustTimeString("09:00"),
		EndTime:    types.MustTimeString("09:20"),
	}
}

type fixture struct {
	store   *store
	tx      *fakeTxManager
	slots   *fakeSlotRepo
	appts   *fakeAppointmentRepo
	cache   *fakeCache
	metrics *fakeMetrics
	uc      *UseCase
}

func newFixture(slots ...domain.Slot) *fixture {
	st := newStore(slots...)
	f := &fixture{
		store:   st,
		tx:      &fakeTxManager{store: st},
		slots:   &fakeSlotRepo{store: st},
		appts:   &fakeAppointmentRepo{store: st},
		cache:   &fakeCache{},
		metrics: &fakeMetrics{},
	}
	f.uc = NewUseCase(f.slots, f.appts, f.tx, f.cache, f.metrics, nopLogger{})
	return f
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(freeSlot())

	resp, err := f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-1", Reason: "checkup"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AppointmentID)
	assert.Equal(t, "slot-1", resp.SlotID)
	assert.Equal(t, "patient-1", resp.PatientID)
	assert.Equal(t, "doctor-1", resp.DoctorID)
	assert.Equal(t, types.TimeString("09:00"), resp.StartTime)

	assert.True(t, f.store.slots["slot-1"].IsBooked)
	appt, ok := f.store.appointments["slot-1"]
	require.True(t, ok)
	assert.True(t, appt.BelongsTo("patient-1"))
	assert.Equal(t, "checkup", appt.Reason)

	assert.Equal(t, []string{"doctor-1"}, f.cache.invalidated)
	assert.Equal(t, 1, f.metrics.results[metrics.BookingResultSuccess])
}

func TestUseCase_Execute_SlotNotFound(t *testing.T) {
	f := newFixture(freeSlot())

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: "missing", PatientID: "patient-1"})
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Empty(t, f.store.appointments)
	assert.Equal(t, 1, f.metrics.results[metrics.BookingResultNotFound])
}

func TestUseCase_Execute_SequentialDoubleBooking(t *testing.T) {
	f := newFixture(freeSlot())

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-1"})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-2"})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)

	require.Len(t, f.store.appointments, 1)
	appt := f.store.appointments["slot-1"]
	assert.True(t, appt.BelongsTo("patient-1"))
	assert.Equal(t, 1, f.metrics.results[metrics.BookingResultConflict])
}

func TestUseCase_Execute_ConcurrentBookingsExactlyOneWins(t *testing.T) {
	f := newFixture(freeSlot())
	const attempts = 50

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := f.uc.Execute(context.Background(), &Request{
				SlotID:    "slot-1",
				PatientID: "patient-" + strings.Repeat("x", i%5+1),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotAlreadyBooked):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Empty(t, others)
	assert.Len(t, f.store.appointments, 1)
	assert.True(t, f.store.slots["slot-1"].IsBooked)
}

func TestUseCase_Execute_UniqueConstraintIsLastLineOfDefense(t *testing.T) {
	f := newFixture(freeSlot())

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-1"})
	require.NoError(t, err)

	// проверка isBooked не срабатывает: конфликт ловит уникальность slot_id
	f.slots.staleReads = true
	_, err = f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-2"})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Len(t, f.store.appointments, 1)
}

func TestUseCase_Execute_CompareAndSetCatchesLostUpdate(t *testing.T) {
	f := newFixture(freeSlot())

	// запись отсутствует, но слот уже помечен занятым другим процессом
	s := f.store.slots["slot-1"]
	s.IsBooked = true
	f.store.slots["slot-1"] = s
	f.slots.staleReads = true

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-2"})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Empty(t, f.store.appointments, "appointment must be rolled back")
}

func TestUseCase_Execute_FaultAfterSlotFlipRollsBack(t *testing.T) {
	f := newFixture(freeSlot())
	fault := errors.New("connection reset before commit")
	f.tx.failBeforeCommit = fault

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-1"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, fault)

	assert.False(t, f.store.slots["slot-1"].IsBooked)
	assert.Empty(t, f.store.appointments)
	assert.Empty(t, f.cache.invalidated)
	assert.Equal(t, 1, f.metrics.results[metrics.BookingResultError])
}

func TestUseCase_Execute_CommitSerializationFailureIsConflict(t *testing.T) {
	f := newFixture(freeSlot())
	f.tx.commitErr = &pq.Error{Code: pgerr.SerializationFailure}

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-1"})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.False(t, f.store.slots["slot-1"].IsBooked)
	assert.Empty(t, f.store.appointments)
}

func TestUseCase_Execute_StorageErrorIsInternal(t *testing.T) {
	f := newFixture(freeSlot())
	f.appts.err = errors.New("disk full")

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: "slot-1", PatientID: "patient-1"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, f.store.slots["slot-1"].IsBooked)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "missing slot", req: &Request{PatientID: "p"}},
		{name: "missing patient", req: &Request{SlotID: "slot-1"}},
		{name: "reason too long", req: &Request{SlotID: "slot-1", PatientID: "p", Reason: strings.Repeat("a", domain.MaxReasonLength+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(freeSlot())

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.False(t, f.store.slots["slot-1"].IsBooked)
		})
	}
}
