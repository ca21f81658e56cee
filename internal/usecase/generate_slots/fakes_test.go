package generate_slots

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeScheduleRepo struct {
	schedules []*domain.RecurringSchedule
	err       error
}

func (r *fakeScheduleRepo) ListAll(context.Context) ([]*domain.RecurringSchedule, error) {
	return r.schedules, r.err
}

func (r *fakeScheduleRepo) ListByIDs(_ context.Context, ids []string) ([]*domain.RecurringSchedule, error) {
	if r.err != nil {
		return nil, r.err
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]*domain.RecurringSchedule, 0)
	for _, s := range r.schedules {
		if wanted[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

var errStorage = errors.New("storage unavailable")

// fakeSlotRepo хранит слоты по естественному ключу, как уникальный индекс в БД
type fakeSlotRepo struct {
	mu        sync.Mutex
	slots     map[domain.SlotKey]*domain.Slot
	failFor   map[string]bool
	callCount int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[domain.SlotKey]*domain.Slot), failFor: make(map[string]bool)}
}

func (r *fakeSlotRepo) InsertIfAbsent(_ context.Context, slots []*domain.Slot) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.callCount++
	var created int64
	for _, s := range slots {
		if r.failFor[s.ScheduleID] {
			return created, errStorage
		}
		if _, ok := r.slots[s.Key()]; ok {
			continue
		}
		cp := *s
		r.slots[s.Key()] = &cp
		created++
	}
	return created, nil
}

func (r *fakeSlotRepo) snapshot() map[domain.SlotKey]domain.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.SlotKey]domain.Slot, len(r.slots))
	for k, v := range r.slots {
		out[k] = *v
	}
	return out
}

type fakeCache struct {
	mu     sync.Mutex
	purges int
}

func (c *fakeCache) Purge() {
	c.mu.Lock()
	c.purges++
	c.mu.Unlock()
}

type fakeMetrics struct {
	created, skipped int64
	failures         int
}

func (m *fakeMetrics) ObserveSlotGeneration(created, skipped int64, failures int, _ time.Duration) {
	m.created, m.skipped, m.failures = created, skipped, failures
}
