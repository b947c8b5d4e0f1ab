package web

import "time"

type CalendarMonth struct {
	Label string
	Weeks []CalendarWeek
}

type CalendarWeek struct {
	Days []CalendarDay
}

type CalendarDay struct {
	Date     string
	Day      int
	InMonth  bool
	HasEntry bool
	URL      string
	Active   bool
}

// buildCalendarMonth lays out the current month, Sunday-first, marking
// days that have a diary entry and linking them to their view.
func buildCalendarMonth(now time.Time, entryDays []string, activeDate string) CalendarMonth {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	entries := make(map[string]bool, len(entryDays))
	for _, day := range entryDays {
		entries[day] = true
	}

	offset := int(monthStart.Weekday())
	gridStart := monthStart.AddDate(0, 0, -offset)

	var weeks []CalendarWeek
	var days []CalendarDay
	for day := gridStart; ; day = day.AddDate(0, 0, 1) {
		dateKey := day.Format("2006-01-02")
		hasEntry := entries[dateKey]
		url := ""
		if hasEntry {
			url = "/diary?d=" + dateKey
		}
		days = append(days, CalendarDay{
			Date:     dateKey,
			Day:      day.Day(),
			InMonth:  day.Month() == monthStart.Month(),
			HasEntry: hasEntry,
			URL:      url,
			Active:   activeDate == dateKey,
		})

		if len(days) == 7 {
			weeks = append(weeks, CalendarWeek{Days: days})
			days = nil
			if !day.Before(monthEnd) && day.Weekday() == time.Saturday {
				break
			}
		}
	}

	return CalendarMonth{
		Label: monthStart.Format("January 2006"),
		Weeks: weeks,
	}
}
