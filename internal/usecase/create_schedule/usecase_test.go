package create_schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/integrations/directoryservice"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{ calls int }

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fakeScheduleRepo struct {
	err      error
	received []domain.ScheduleWindow
}

func (r *fakeScheduleRepo) AddSchedules(_ context.Context, doctorID, clinicID string, duration int, windows []domain.ScheduleWindow) ([]*domain.RecurringSchedule, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.received = windows
	out := make([]*domain.RecurringSchedule, 0, len(windows))
	for i, w := range windows {
		out = append(out, &domain.RecurringSchedule{
			ID:                  fmt.Sprintf("sch-%d", i+1),
			ClinicID:            clinicID,
			DoctorID:            doctorID,
			DayOfWeek:           w.DayOfWeek,
			StartTime:           w.StartTime,
			EndTime:             w.EndTime,
			SlotDurationMinutes: duration,
		})
	}
	return out, nil
}

type fakeTrigger struct {
	err      error
	requests []domain.GenerationRequest
}

func (t *fakeTrigger) Enqueue(_ context.Context, req domain.GenerationRequest) error {
	if t.err != nil {
		return t.err
	}
	t.requests = append(t.requests, req)
	return nil
}

type fakeDirectory struct {
	doctor *directoryservice.Doctor
	err    error
}

func (d *fakeDirectory) GetDoctorWithGracefulDegradation(context.Context, string) (*directoryservice.Doctor, error) {
	return d.doctor, d.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func validRequest() *Request {
	return &Request{
		ActorClinicID:       "clinic-1",
		ClinicID:            "clinic-1",
		DoctorID:            "doctor-1",
		SlotDurationMinutes: 20,
		Windows: []Window{
			{DayOfWeek: 1, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("09:40")},
			{DayOfWeek: 3, StartTime: types.MustTimeString("14:00"), EndTime: types.MustTimeString("18:00")},
		},
	}
}

func newUseCase(repo *fakeScheduleRepo, directory DirectoryClient, trigger *fakeTrigger) *UseCase {
	uc := NewUseCase(repo, directory, trigger, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)}
	return uc
}

func TestUseCase_Execute_Success(t *testing.T) {
	repo := &fakeScheduleRepo{}
	trigger := &fakeTrigger{}
	uc := newUseCase(repo, nil, trigger)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Schedules, 2)
	assert.True(t, resp.GenerationQueued)
	assert.Equal(t, 3, resp.Schedules[1].DayOfWeek)
	assert.Equal(t, time.Monday, repo.received[0].DayOfWeek)

	require.Len(t, trigger.requests, 1)
	assert.Equal(t, []string{"sch-1", "sch-2"}, trigger.requests[0].ScheduleIDs)
	assert.Equal(t, domain.GenerationReasonScheduleCreated, trigger.requests[0].Reason)
}

func TestUseCase_Execute_EnqueueFailureDoesNotFail(t *testing.T) {
	uc := newUseCase(&fakeScheduleRepo{}, nil, &fakeTrigger{err: errors.New("queue full")})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, resp.GenerationQueued)
	assert.Len(t, resp.Schedules, 2)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "no windows", mutate: func(r *Request) { r.Windows = nil }},
		{name: "empty doctor", mutate: func(r *Request) { r.DoctorID = "" }},
		{name: "duration too small", mutate: func(r *Request) { r.SlotDurationMinutes = 0 }},
		{name: "duration too large", mutate: func(r *Request) { r.SlotDurationMinutes = 600 }},
		{name: "day of week", mutate: func(r *Request) { r.Windows[0].DayOfWeek = 7 }},
		{name: "end before start", mutate: func(r *Request) { r.Windows[0].EndTime = types.MustTimeString("08:00") }},
		{name: "end equals start", mutate: func(r *Request) { r.Windows[0].EndTime = r.Windows[0].StartTime }},
		{name: "bad time", mutate: func(r *Request) { r.Windows[1].StartTime = "9am" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeScheduleRepo{}
			trigger := &fakeTrigger{}
			uc := newUseCase(repo, nil, trigger)

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.received)
			assert.Empty(t, trigger.requests)
		})
	}
}

func TestUseCase_Execute_ShortWindowAccepted(t *testing.T) {
	uc := newUseCase(&fakeScheduleRepo{}, nil, &fakeTrigger{})

	req := validRequest()
	req.SlotDurationMinutes = 60
	req.Windows = []Window{{DayOfWeek: 1, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("09:40")}}

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestUseCase_Execute_ForeignClinic(t *testing.T) {
	uc := newUseCase(&fakeScheduleRepo{}, nil, &fakeTrigger{})

	req := validRequest()
	req.ActorClinicID = "clinic-2"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUseCase_Execute_Directory(t *testing.T) {
	tests := []struct {
		name    string
		dir     *fakeDirectory
		wantErr error
	}{
		{name: "known doctor", dir: &fakeDirectory{doctor: &directoryservice.Doctor{ID: "doctor-1", ClinicID: "clinic-1"}}},
		{name: "unknown doctor", dir: &fakeDirectory{err: directoryservice.ErrDoctorNotFound}, wantErr: ErrDoctorNotFound},
		{name: "doctor of other clinic", dir: &fakeDirectory{doctor: &directoryservice.Doctor{ID: "doctor-1", ClinicID: "clinic-9"}}, wantErr: ErrForbidden},
		{name: "directory degraded", dir: &fakeDirectory{err: fmt.Errorf("%w: timeout", directoryservice.ErrServiceDegraded)}},
		{name: "unexpected error", dir: &fakeDirectory{err: errors.New("boom")}, wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&fakeScheduleRepo{}, tt.dir, &fakeTrigger{})

			_, err := uc.Execute(context.Background(), validRequest())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUseCase_Execute_RepositoryError(t *testing.T) {
	trigger := &fakeTrigger{}
	uc := newUseCase(&fakeScheduleRepo{err: errors.New("connection reset")}, nil, trigger)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, trigger.requests)
}
