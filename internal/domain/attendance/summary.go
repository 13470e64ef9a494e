package attendance

import "sort"

// Summarize folds a user-month's days into its summary. Pure and deterministic:
// days are visited in date order and the same input always yields the same output.
func Summarize(days map[string]DailyRecord) MonthlySummary {
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var s MonthlySummary
	for _, date := range dates {
		rec := days[date]
		s.RecordedDays++
		s.TotalHours += rec.TotalHours
		s.TotalExcessHours += rec.ExcessHours
		s.TotalValue += rec.ComputeValue()

		if rec.IsAbsent() {
			s.AbsentDays++
			continue
		}
		if rec.Late {
			s.LateArrivals++
		}

		switch presenceRules[rec.PresenceType].category {
		case categoryPresent:
			s.PresentDays++
		case categoryHalfDay:
			s.HalfDays++
		case categoryLeave:
			s.LeaveDays++
		case categoryHalfDayLeave:
			s.HalfDays++
			s.LeaveDays += 0.5
		case categoryHoliday:
			s.Holidays++
		}
	}

	s.TotalHours = round2(s.TotalHours)
	s.TotalExcessHours = round2(s.TotalExcessHours)
	s.TotalValue = round2(s.TotalValue)
	return s
}
