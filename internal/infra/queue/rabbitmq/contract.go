package rabbitmq

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// Handoff получатель заявок на генерацию из очереди
type Handoff interface {
	Enqueue(ctx context.Context, req domain.GenerationRequest) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
