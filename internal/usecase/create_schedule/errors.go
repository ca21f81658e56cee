package create_schedule

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_schedule: invalid input data")

	// ErrForbidden возвращается, когда администратор управляет чужой клиникой
	ErrForbidden = errors.New("create_schedule: access denied")

	// ErrDoctorNotFound возвращается, когда врача нет в справочнике
	ErrDoctorNotFound = errors.New("create_schedule: doctor not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_schedule: internal error")
)
