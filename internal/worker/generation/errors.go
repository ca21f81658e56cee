package generation

import "errors"

var (
	// ErrQueueFull очередь заявок переполнена, заявка отброшена
	ErrQueueFull = errors.New("generation.runner: queue is full")

	// ErrStopped раннер остановлен и заявки не принимает
	ErrStopped = errors.New("generation.runner: stopped")
)
