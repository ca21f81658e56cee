package create_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	createSchedule "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/create_schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidSchedule    = "некорректное расписание"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "нет прав на управление расписанием этой клиники"
	msgDoctorNotFound     = "врач не найден"
)

type Handler struct {
	useCase CreateScheduleUseCase
	logger  Logger
}

func NewHandler(useCase CreateScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/clinics/{clinicId}/schedules
// Отвечает сразу после сохранения расписания, слоты генерируются в фоне
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clinicID := mux.Vars(r)["clinicId"]

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /clinics/{id}/schedules - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clinics/{id}/schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clinicID, identity.ClinicID)
	if err != nil {
		h.logger.Warn("POST /clinics/{id}/schedules - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createSchedule.ErrInvalidInput):
			h.logger.Warn("POST /clinics/{id}/schedules - Invalid schedule: clinic_id=%s, error=%v", clinicID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, createSchedule.ErrForbidden):
			h.logger.Warn("POST /clinics/{id}/schedules - Forbidden: clinic_id=%s, user_id=%s", clinicID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createSchedule.ErrDoctorNotFound):
			h.logger.Warn("POST /clinics/{id}/schedules - Doctor not found: doctor_id=%s", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		default:
			h.logger.Error("POST /clinics/{id}/schedules - Failed to create schedule: clinic_id=%s, error=%v", clinicID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /clinics/{id}/schedules - Schedules created: clinic_id=%s, doctor_id=%s, count=%d",
		clinicID, req.DoctorID, len(result.Schedules))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
