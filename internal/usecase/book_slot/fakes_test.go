package book_slot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// store in-memory хранилище с уникальностью slot_id у записей
type store struct {
	mu           sync.Mutex
	slots        map[string]domain.Slot
	appointments map[string]domain.Appointment // ключ slot_id
	seq          int
}

func newStore(slots ...domain.Slot) *store {
	st := &store{slots: make(map[string]domain.Slot), appointments: make(map[string]domain.Appointment)}
	for _, s := range slots {
		st.slots[s.ID] = s
	}
	return st
}

type snapshot struct {
	slots        map[string]domain.Slot
	appointments map[string]domain.Appointment
}

func (st *store) snapshot() snapshot {
	snap := snapshot{
		slots:        make(map[string]domain.Slot, len(st.slots)),
		appointments: make(map[string]domain.Appointment, len(st.appointments)),
	}
	for k, v := range st.slots {
		snap.slots[k] = v
	}
	for k, v := range st.appointments {
		snap.appointments[k] = v
	}
	return snap
}

func (st *store) restore(snap snapshot) {
	st.slots = snap.slots
	st.appointments = snap.appointments
}

// fakeTxManager сериализует транзакции и откатывает состояние при ошибке
type fakeTxManager struct {
	store *store

	// failBeforeCommit имитирует сбой после всех изменений, но до фиксации
	failBeforeCommit error
	// commitErr имитирует ошибку драйвера на COMMIT
	commitErr error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	if m.failBeforeCommit != nil {
		m.store.restore(snap)
		return m.failBeforeCommit
	}
	if m.commitErr != nil {
		m.store.restore(snap)
		return fmt.Errorf("%w: %w", txmanager.ErrCommit, m.commitErr)
	}
	return nil
}

type fakeSlotRepo struct {
	store *store
	// staleReads имитирует чтение без блокировки: слот всегда выглядит свободным
	staleReads bool
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id string) (*domain.Slot, error) {
	s, ok := r.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if r.staleReads {
		s.IsBooked = false
	}
	return &s, nil
}

func (r *fakeSlotRepo) MarkBooked(_ context.Context, id string) error {
	s, ok := r.store.slots[id]
	if !ok || s.IsBooked {
		return slotRepo.ErrSlotAlreadyBooked
	}
	s.IsBooked = true
	r.store.slots[id] = s
	return nil
}

type fakeAppointmentRepo struct {
	store *store
	err   error
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	if _, exists := r.store.appointments[a.SlotID]; exists {
		return nil, appointmentRepo.ErrSlotAlreadyBooked
	}
	r.store.seq++
	a.ID = "appt-" + strconv.Itoa(r.store.seq)
	a.CreatedAt = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	r.store.appointments[a.SlotID] = *a
	return a, nil
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *fakeCache) InvalidateDoctor(doctorID string) {
	c.mu.Lock()
	c.invalidated = append(c.invalidated, doctorID)
	c.mu.Unlock()
}

type fakeMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *fakeMetrics) ObserveBooking(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}
