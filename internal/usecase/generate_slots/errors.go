package generate_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном горизонте или параметрах
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается, если не удалось загрузить расписания
	ErrInternal = errors.New("generate_slots: internal error")

	// ErrScheduleFailed оборачивает ошибку генерации одного расписания
	ErrScheduleFailed = errors.New("generate_slots: schedule generation failed")
)
