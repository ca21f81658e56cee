package get_clinic_schedules

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules"
)

const (
	msgInvalidClinicID = "некорректный ID клиники"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clinics/{clinicId}/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clinicID := mux.Vars(r)["clinicId"]

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /clinics/{id}/schedules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	list, err := h.service.GetClinicSchedules(r.Context(), clinicID, identity)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("GET /clinics/{id}/schedules - Invalid clinic ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidClinicID)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("GET /clinics/{id}/schedules - Access denied: clinic_id=%s, user_id=%s", clinicID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /clinics/{id}/schedules - Failed to get schedules: clinic_id=%s, error=%v", clinicID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clinics/{id}/schedules - Schedules retrieved: clinic_id=%s, count=%d", clinicID, list.Total)
	handlers.RespondJSON(w, http.StatusOK, list)
}
