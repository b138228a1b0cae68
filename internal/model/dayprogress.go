package model

import (
	"fmt"
	"time"
)

type DayProgress struct {
	Percent   float64
	HoursLeft int
	Status    string
}

// WorkDayProgress reports how much of the [startHour, endHour) work window
// has elapsed at now.
func WorkDayProgress(now time.Time, startHour, endHour int) DayProgress {
	if endHour <= startHour {
		return DayProgress{}
	}
	total := (endHour - startHour) * 60
	hour := now.Hour()

	done := 0
	switch {
	case hour < startHour:
		done = 0
	case hour >= endHour:
		done = total
	default:
		done = (hour-startHour)*60 + now.Minute()
	}

	out := DayProgress{
		Percent:   float64(done) / float64(total) * 100,
		HoursLeft: max(0, endHour-hour),
	}
	switch {
	case hour >= endHour:
		out.HoursLeft = 0
		out.Status = "Work day complete"
	case hour < startHour:
		out.Status = fmt.Sprintf("Work starts in %d hours", startHour-hour)
	default:
		out.Status = fmt.Sprintf("%d hours left today", out.HoursLeft)
	}
	return out
}
