package models

import (
	"time"
)

// Slot generation for the public booking page. Pure functions over settings,
// the chosen meeting type, and the day's existing bookings.

// TimeSlot is one offerable start time.
type TimeSlot struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// parseClock turns "HH:MM" into minutes after midnight. Invalid input yields
// -1; settings validation rejects those before storage.
func parseClock(s string) int {
	if len(s) != 5 || s[2] != ':' {
		return -1
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

// GenerateTimeSlots produces bookable start times on the given date for a
// meeting type. A slot is offered when:
//   - the weekday is enabled and the whole meeting fits inside its window,
//   - the start is at least AdvanceNoticeHours after now,
//   - the date is within MaxDaysOut of now,
//   - the slot, padded by the before/after buffers, does not overlap any
//     scheduled booking.
func GenerateTimeSlots(settings *ScheduleSettings, meetingType *MeetingType, date time.Time, existing []*Booking, now time.Time) []TimeSlot {

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		loc = time.UTC
	}
	date = date.In(loc)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	if settings.MaxDaysOut > 0 {
		horizon := now.In(loc).AddDate(0, 0, settings.MaxDaysOut)
		if day.After(horizon) {
			return nil
		}
	}

	availability := settings.Availability[int(day.Weekday())]
	if !availability.Enabled {
		return nil
	}
	windowStart := parseClock(availability.StartTime)
	windowEnd := parseClock(availability.EndTime)
	if windowStart < 0 || windowEnd <= windowStart {
		return nil
	}

	interval := settings.SlotIntervalMinutes
	if interval <= 0 {
		interval = 30
	}
	duration := time.Duration(meetingType.DurationMinutes) * time.Minute
	earliest := now.Add(time.Duration(settings.AdvanceNoticeHours) * time.Hour)
	bufferBefore := time.Duration(settings.BufferBeforeMinutes) * time.Minute
	bufferAfter := time.Duration(settings.BufferAfterMinutes) * time.Minute

	var slots []TimeSlot
	for minute := windowStart; minute+meetingType.DurationMinutes <= windowEnd; minute += interval {
		start := day.Add(time.Duration(minute) * time.Minute)
		end := start.Add(duration)

		if start.Before(earliest) {
			continue
		}
		if slotConflicts(start.Add(-bufferBefore), end.Add(bufferAfter), existing) {
			continue
		}
		slots = append(slots, TimeSlot{StartsAt: start, EndsAt: end})
	}
	return slots
}

// slotConflicts reports whether the padded window [from, to) intersects any
// scheduled booking.
func slotConflicts(from, to time.Time, existing []*Booking) bool {
	for _, b := range existing {
		if b.Status != BookingStatusScheduled {
			continue
		}
		if b.StartsAt.Before(to) && b.EndsAt.After(from) {
			return true
		}
	}
	return false
}
