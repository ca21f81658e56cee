package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись на прием не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotAlreadyBooked возвращается при нарушении уникальности slot_id
	ErrSlotAlreadyBooked = errors.New("appointment.repository: slot already has an appointment")

	// ErrSlotNotFound возвращается, когда слот, на который ссылается запись, не существует
	ErrSlotNotFound = errors.New("appointment.repository: referenced slot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
