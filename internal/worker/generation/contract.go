package generation

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/usecase/generate_slots"
)

// Generator прогон генерации слотов
type Generator interface {
	Execute(ctx context.Context, req *generate_slots.Request) (*generate_slots.Report, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
