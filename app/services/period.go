package services

import (
	"fmt"
	"time"
)

// PeriodInterval is one class period as a half-open [start, end) interval
// in site-local wall-clock time.
type PeriodInterval struct {
	Period    int
	StartHour int
	StartMin  int
	EndHour   int
	EndMin    int
}

// PeriodSchedule is the school's class-period table
var PeriodSchedule = []PeriodInterval{
	{Period: 1, StartHour: 7, StartMin: 50, EndHour: 9, EndMin: 15},
	{Period: 2, StartHour: 9, StartMin: 15, EndHour: 10, EndMin: 40},
	{Period: 3, StartHour: 10, StartMin: 40, EndHour: 12, EndMin: 5},
	{Period: 4, StartHour: 12, StartMin: 5, EndHour: 12, EndMin: 30},
	{Period: 5, StartHour: 12, StartMin: 30, EndHour: 14, EndMin: 25},
	{Period: 6, StartHour: 14, StartMin: 25, EndHour: 15, EndMin: 50},
}

const (
	// ReservedPeriod is blocked for lunch-time club activity; the library
	// is closed during it no matter how empty it is.
	ReservedPeriod = 4

	// MaxCapacity is the number of seats available per period
	MaxCapacity = 35

	// OutOfPeriodLabel tags records stored outside any class period
	OutOfPeriodLabel = "시간 외"
)

// CurrentPeriod resolves wall-clock time to a period number. It returns 0
// outside every configured interval and inside the reserved one.
func CurrentPeriod(now time.Time) int {
	minute := now.Hour()*60 + now.Minute()
	for _, iv := range PeriodSchedule {
		start := iv.StartHour*60 + iv.StartMin
		end := iv.EndHour*60 + iv.EndMin
		if minute >= start && minute < end {
			if iv.Period == ReservedPeriod {
				return 0
			}
			return iv.Period
		}
	}
	return 0
}

// PeriodLabel renders the stored label for a period number ("2교시"),
// or the out-of-period label for 0.
func PeriodLabel(period int) string {
	if period <= 0 {
		return OutOfPeriodLabel
	}
	return fmt.Sprintf("%d교시", period)
}
