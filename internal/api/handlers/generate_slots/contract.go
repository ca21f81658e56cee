package generate_slots

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// GenerationTrigger очередь заявок на генерацию (раннер или RabbitMQ)
type GenerationTrigger interface {
	Enqueue(ctx context.Context, req domain.GenerationRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
