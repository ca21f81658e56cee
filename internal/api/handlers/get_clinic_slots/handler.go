package get_clinic_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedules"
)

const (
	msgInvalidQuery  = "некорректные параметры запроса"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clinics/{clinicId}/slots?doctorId=&date=&isBooked=&limit=&offset=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clinicID := mux.Vars(r)["clinicId"]

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /clinics/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := parseQuery(clinicID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /clinics/{id}/slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	page, err := h.service.GetClinicSlots(r.Context(), req, identity)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("GET /clinics/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("GET /clinics/{id}/slots - Access denied: clinic_id=%s, user_id=%s", clinicID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /clinics/{id}/slots - Failed to get slots: clinic_id=%s, error=%v", clinicID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clinics/{id}/slots - Slots retrieved: clinic_id=%s, returned=%d, total=%d",
		clinicID, len(page.Slots), page.Total)
	handlers.RespondJSON(w, http.StatusOK, page)
}
