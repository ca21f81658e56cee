package get_patient_appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got string
	err error
}

func (f *fakeService) ListByPatient(_ context.Context, patientID string) (*models.AppointmentListResponse, error) {
	f.got = patientID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{
		Appointments: []models.AppointmentResponse{{ID: "appt-1", SlotID: "slot-1"}},
		Total:        1,
	}, nil
}

func authed(identity domain.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/me/appointments", nil)
	return req.WithContext(middleware.WithIdentity(req.Context(), identity))
}

func TestHandler_Success(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()

	NewHandler(svc, nopLogger{}).Handle(rec, authed(domain.Identity{UserID: "patient-1", Role: domain.RolePatient}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "patient-1", svc.got)

	var body models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
}

func TestHandler_Unauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeService{}, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Internal(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeService{err: errors.New("db")}, nopLogger{}).Handle(rec, authed(domain.Identity{UserID: "p", Role: domain.RolePatient}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
