package directoryservice

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач отсутствует в справочнике
	ErrDoctorNotFound = errors.New("directoryservice client: doctor not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directoryservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directoryservice client: invalid response")

	// ErrServiceDegraded справочник недоступен, проверка врача пропущена
	ErrServiceDegraded = errors.New("directoryservice unavailable: graceful degradation applied")
)
