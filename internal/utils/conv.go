package utils

import (
	"strconv"
	"time"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// DayKey formats a point in time as the calendar-day key used by the vote
// budget ("2006-01-02" in the server's local time).
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
