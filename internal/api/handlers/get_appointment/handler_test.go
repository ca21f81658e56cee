package get_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID       string
	gotIdentity domain.Identity
	err         error
}

func (f *fakeService) GetByID(_ context.Context, id string, identity domain.Identity) (*models.AppointmentResponse, error) {
	f.gotID = id
	f.gotIdentity = identity
	if f.err != nil {
		return nil, f.err
	}
	patientID := identity.UserID
	return &models.AppointmentResponse{ID: id, SlotID: "slot-1", PatientID: &patientID}, nil
}

func serve(svc *fakeService, identity *domain.Identity) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/appointments/{appointmentId}", NewHandler(svc, nopLogger{}).Handle)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/appt-1", nil)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

var patient = &domain.Identity{UserID: "patient-1", Role: domain.RolePatient}

func TestHandler_Success(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, patient)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "appt-1", svc.gotID)
	assert.Equal(t, "patient-1", svc.gotIdentity.UserID)

	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "slot-1", body.SlotID)
	assert.Equal(t, "patient-1", *body.PatientID)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		identity *domain.Identity
		err      error
		want     int
	}{
		{name: "no identity", want: http.StatusUnauthorized},
		{name: "not found", identity: patient, err: appointments.ErrAppointmentNotFound, want: http.StatusNotFound},
		{name: "forbidden", identity: patient, err: appointments.ErrAccessDenied, want: http.StatusForbidden},
		{name: "invalid", identity: patient, err: appointments.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "internal", identity: patient, err: errors.New("db"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.identity)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
