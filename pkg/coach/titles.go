package coach

import (
	"fmt"
	"regexp"
	"strconv"
)

// MesocycleWeeks is the length of the training block. After the final week
// the cycle wraps back to week 1 with a deload.
const MesocycleWeeks = 8

var (
	weekRegexp = regexp.MustCompile(`(?i)week\s*(\d+)`)
	dayRegexp  = regexp.MustCompile(`(?i)day\s*(\d+)`)
)

func matchNumber(re *regexp.Regexp, title string) (int, bool) {
	m := re.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractWeek returns the week number embedded in a workout title, if any.
func ExtractWeek(title string) (int, bool) {
	return matchNumber(weekRegexp, title)
}

// ExtractDay returns the day number embedded in a workout title, if any.
func ExtractDay(title string) (int, bool) {
	return matchNumber(dayRegexp, title)
}

// ExtractWeekAndDay returns the week and day for a title, defaulting both
// to 1 when absent.
func ExtractWeekAndDay(title string) (week, day int) {
	week, day = 1, 1
	if w, ok := ExtractWeek(title); ok {
		week = w
	}
	if d, ok := ExtractDay(title); ok {
		day = d
	}
	return week, day
}

// NextWeek advances the week index, wrapping to 1 at the end of the block.
func NextWeek(week int) int {
	if week >= MesocycleWeeks {
		return 1
	}
	return week + 1
}

// NextRoutineTitle derives the title the routine should advance to, based
// on which markers the current workout title carries.
func NextRoutineTitle(title string) string {
	_, hasWeek := ExtractWeek(title)
	_, hasDay := ExtractDay(title)
	week, day := ExtractWeekAndDay(title)

	switch {
	case hasDay && hasWeek:
		return fmt.Sprintf("Day %d - Week %d", day, NextWeek(week))
	case hasDay:
		return fmt.Sprintf("Day %d", day+1)
	case hasWeek:
		return fmt.Sprintf("Week %d", NextWeek(week))
	default:
		// No markers at all: assume week 1 just finished.
		return "Week 2"
	}
}
