package models

import (
	"testing"
	"time"
)

func slotSettings() *ScheduleSettings {
	availability := WeekAvailability{}
	// Monday through Friday, 09:00-17:00.
	for d := 1; d <= 5; d++ {
		availability[d] = DayAvailability{Enabled: true, StartTime: "09:00", EndTime: "17:00"}
	}
	return &ScheduleSettings{
		Timezone:            "UTC",
		Availability:        availability,
		SlotIntervalMinutes: 60,
		AdvanceNoticeHours:  0,
		MaxDaysOut:          60,
	}
}

func TestGenerateTimeSlots_FitsInsideWindow(t *testing.T) {
	settings := slotSettings()
	meetingType := &MeetingType{DurationMinutes: 60}
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC) // Wednesday
	date := now

	slots := GenerateTimeSlots(settings, meetingType, date, nil, now)
	// 09:00 through 16:00 starts, hourly.
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	if got := slots[0].StartsAt.Format("15:04"); got != "09:00" {
		t.Errorf("first slot = %s, want 09:00", got)
	}
	if got := slots[len(slots)-1].StartsAt.Format("15:04"); got != "16:00" {
		t.Errorf("last slot = %s, want 16:00", got)
	}
}

func TestGenerateTimeSlots_LongMeetingCannotSpillPastClose(t *testing.T) {
	settings := slotSettings()
	meetingType := &MeetingType{DurationMinutes: 90}
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	slots := GenerateTimeSlots(settings, meetingType, now, nil, now)
	for _, s := range slots {
		if s.EndsAt.After(time.Date(2026, 4, 1, 17, 0, 0, 0, time.UTC)) {
			t.Errorf("slot ending %v spills past the window close", s.EndsAt)
		}
	}
	// Last viable start is 15:00: 16:00 + 90m would pass 17:00.
	if got := slots[len(slots)-1].StartsAt.Format("15:04"); got != "15:00" {
		t.Errorf("last slot = %s, want 15:00", got)
	}
}

func TestGenerateTimeSlots_DisabledDayAndHorizon(t *testing.T) {
	settings := slotSettings()
	meetingType := &MeetingType{DurationMinutes: 30}
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	sunday := time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)
	if slots := GenerateTimeSlots(settings, meetingType, sunday, nil, now); len(slots) != 0 {
		t.Errorf("disabled weekday should yield no slots, got %d", len(slots))
	}

	settings.MaxDaysOut = 7
	farOut := now.AddDate(0, 0, 14)
	if slots := GenerateTimeSlots(settings, meetingType, farOut, nil, now); len(slots) != 0 {
		t.Errorf("date beyond horizon should yield no slots, got %d", len(slots))
	}
}

func TestGenerateTimeSlots_AdvanceNotice(t *testing.T) {
	settings := slotSettings()
	settings.AdvanceNoticeHours = 4
	meetingType := &MeetingType{DurationMinutes: 60}
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	slots := GenerateTimeSlots(settings, meetingType, now, nil, now)
	// Earliest allowed start is 12:00.
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	if got := slots[0].StartsAt.Format("15:04"); got != "12:00" {
		t.Errorf("first slot = %s, want 12:00", got)
	}
}

func TestGenerateTimeSlots_BookingAndBufferConflicts(t *testing.T) {
	settings := slotSettings()
	meetingType := &MeetingType{DurationMinutes: 60}
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	booked := []*Booking{
		{
			Status:   BookingStatusScheduled,
			StartsAt: time.Date(2026, 4, 1, 11, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		},
		// Canceled bookings free their slot.
		{
			Status:   BookingStatusCanceled,
			StartsAt: time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC),
		},
	}

	slots := GenerateTimeSlots(settings, meetingType, now, booked, now)
	starts := map[string]bool{}
	for _, s := range slots {
		starts[s.StartsAt.Format("15:04")] = true
	}
	if starts["11:00"] {
		t.Error("booked 11:00 should be excluded")
	}
	if !starts["14:00"] {
		t.Error("canceled booking should not block 14:00")
	}

	// A 30-minute before-buffer pushes the 12:00 slot into the booking.
	settings.BufferBeforeMinutes = 30
	slots = GenerateTimeSlots(settings, meetingType, now, booked, now)
	starts = map[string]bool{}
	for _, s := range slots {
		starts[s.StartsAt.Format("15:04")] = true
	}
	if starts["12:00"] {
		t.Error("12:00 slot padded back to 11:30 should conflict with the 11:00-12:00 booking")
	}
	if !starts["13:00"] {
		t.Error("13:00 should remain available")
	}
}
