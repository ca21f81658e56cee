package get_available_slots

import "errors"

var (
	// ErrNoSlotsAvailable возвращается, когда подходящих свободных слотов нет
	ErrNoSlotsAvailable = errors.New("get_available_slots: no available slots")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
