package domain

import "time"

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// YearAttaining returns the year in which a person born on birth attains age.
// A person attains an age on the day before the anniversary of birth.
func YearAttaining(birth time.Time, age int) int {
	return birth.AddDate(0, 0, -1).Year() + age
}

// DateAttaining returns the date on which a person born on birth attains age.
func DateAttaining(birth time.Time, age int) time.Time {
	return birth.AddDate(age, 0, -1)
}

// AgeAt returns the completed age in years on date.
func AgeAt(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	anniversary := birth.AddDate(age, 0, -1)
	if on.Before(anniversary) {
		age--
	}
	return age
}

// MonthsBetween counts whole months from a to b (negative when b precedes a).
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// CheckMonth validates a month number.
func CheckMonth(month int) error {
	if month < 1 || month > 12 {
		return invalid(CodeMonth, "month", "month %d out of range [1, 12]", month)
	}
	return nil
}
