package get_clinic_schedules

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
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotClinic string
	err       error
}

func (f *fakeService) GetClinicSchedules(_ context.Context, clinicID string, _ domain.Identity) (*models.ScheduleListResponse, error) {
	f.gotClinic = clinicID
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScheduleListResponse{
		Schedules: []models.ScheduleResponse{{ID: "sch-1", ClinicID: clinicID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"}},
		Total:     1,
	}, nil
}

func serve(svc *fakeService, withIdentity bool) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/clinics/{clinicId}/schedules", NewHandler(svc, nopLogger{}).Handle)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clinics/clinic-1/schedules", nil)
	if withIdentity {
		req = req.WithContext(middleware.WithIdentity(req.Context(), domain.Identity{
			UserID: "admin-1", Role: domain.RoleClinicAdmin, ClinicID: "clinic-1",
		}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "clinic-1", svc.gotClinic)

	var body models.ScheduleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Schedules, 1)
	assert.Equal(t, "sch-1", body.Schedules[0].ID)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeService{}, false).Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: schedules.ErrAccessDenied}, true).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: schedules.ErrInvalidInput}, true).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: errors.New("db")}, true).Code)
}
