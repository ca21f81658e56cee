package schedules

import "errors"

var (
	// ErrAccessDenied возвращается, когда пользователь не администратор этой клиники
	ErrAccessDenied = errors.New("schedules.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedules.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedules.service: internal error")
)
