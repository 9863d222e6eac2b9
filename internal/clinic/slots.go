package clinic

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// BookingHorizonDays is how many days after today can be booked.
	BookingHorizonDays = 30
)

// TimeSlots are the candidate start times offered on every bookable day.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
}

func isTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// AvailableSlots returns TimeSlots minus the times held by non-cancelled
// appointments on date.
func AvailableSlots(appts []Appointment, date string) []string {
	held := make(map[string]bool)
	for _, a := range appts {
		if a.Date == date && a.Status.HoldsSlot() {
			held[a.Time] = true
		}
	}
	out := make([]string, 0, len(TimeSlots))
	for _, t := range TimeSlots {
		if !held[t] {
			out = append(out, t)
		}
	}
	return out
}

// BookableDates lists the next BookingHorizonDays days after today,
// skipping Sundays.
func BookableDates(today time.Time) []string {
	out := make([]string, 0, BookingHorizonDays)
	for i := 1; i <= BookingHorizonDays; i++ {
		d := today.AddDate(0, 0, i)
		if d.Weekday() == time.Sunday {
			continue
		}
		out = append(out, d.Format(DateLayout))
	}
	return out
}

func isBookableDate(date string, today time.Time) bool {
	for _, d := range BookableDates(today) {
		if d == date {
			return true
		}
	}
	return false
}

// StartsAt resolves an appointment's date and time in loc.
func StartsAt(a Appointment, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
}
