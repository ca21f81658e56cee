package domain

import "time"

// DateOnly отбрасывает время суток, оставляя календарную дату в UTC
// Даты в системе не привязаны к часовому поясу: клиент передает локальную дату клиники
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
