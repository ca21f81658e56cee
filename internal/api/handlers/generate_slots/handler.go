package generate_slots

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/worker/generation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgQueueBusy          = "очередь генерации переполнена, повторите позже"
)

type Handler struct {
	trigger GenerationTrigger
	logger  Logger
}

func NewHandler(trigger GenerationTrigger, logger Logger) *Handler {
	return &Handler{
		trigger: trigger,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/slots/generate
// Тело необязательно. Генерация идемпотентна, поэтому повторный запуск безопасен
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req GenerateSlotsRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /admin/slots/generate - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	for _, id := range req.ScheduleIDs {
		if strings.TrimSpace(id) == "" {
			h.logger.Warn("POST /admin/slots/generate - Empty schedule ID in request")
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	err := h.trigger.Enqueue(r.Context(), domain.GenerationRequest{
		ScheduleIDs: req.ScheduleIDs,
		Reason:      domain.GenerationReasonManual,
		RequestedAt: time.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrQueueFull), errors.Is(err, generation.ErrStopped):
			h.logger.Warn("POST /admin/slots/generate - Queue unavailable: user_id=%s, error=%v", userID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgQueueBusy)

		default:
			h.logger.Error("POST /admin/slots/generate - Failed to enqueue generation: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots/generate - Generation queued: user_id=%s, schedules=%d", userID, len(req.ScheduleIDs))
	handlers.RespondJSON(w, http.StatusAccepted, GenerateSlotsResponse{
		Queued:      true,
		ScheduleIDs: req.ScheduleIDs,
	})
}
