package utils

import "time"

// ParseDate interpreta uma data no formato YYYY-MM-DD; vazio devolve fallback
func ParseDate(dateStr string, fallback time.Time) (time.Time, error) {
	if dateStr == "" {
		return fallback, nil
	}

	return time.Parse(time.DateOnly, dateStr)
}

// StartOfDay trunca t para a meia-noite em UTC
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
