package models

import (
	"testing"
	"time"
)

func mkBooking(id int, meetingTypeId int, name string, meeting string, location LocationType, status BookingStatus, starts time.Time) *Booking {
	return &Booking{
		ID:            id,
		MeetingTypeId: meetingTypeId,
		InviteeName:   name,
		MeetingName:   meeting,
		Location:      location,
		Status:        status,
		StartsAt:      starts,
		EndsAt:        starts.Add(30 * time.Minute),
	}
}

func TestWeekWindow_MondayStart(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		ref      time.Time
		wantFrom time.Time
	}{
		// Wednesday
		{time.Date(2026, 3, 11, 15, 30, 0, 0, loc), time.Date(2026, 3, 9, 0, 0, 0, 0, loc)},
		// Monday itself
		{time.Date(2026, 3, 9, 0, 0, 0, 0, loc), time.Date(2026, 3, 9, 0, 0, 0, 0, loc)},
		// Sunday belongs to the week that started the previous Monday
		{time.Date(2026, 3, 15, 23, 59, 0, 0, loc), time.Date(2026, 3, 9, 0, 0, 0, 0, loc)},
	}
	for _, c := range cases {
		got := WeekWindow(c.ref, loc)
		if !got.From.Equal(c.wantFrom) {
			t.Errorf("WeekWindow(%v).From = %v, want %v", c.ref, got.From, c.wantFrom)
		}
		if !got.To.Equal(c.wantFrom.AddDate(0, 0, 7)) {
			t.Errorf("WeekWindow(%v).To = %v, want %v", c.ref, got.To, c.wantFrom.AddDate(0, 0, 7))
		}
	}
}

func TestMonthWindow_Bounds(t *testing.T) {
	loc := time.UTC
	got := MonthWindow(time.Date(2026, 2, 14, 12, 0, 0, 0, loc), loc)
	if !got.From.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("From = %v", got.From)
	}
	if !got.To.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("To = %v", got.To)
	}
	// Boundary membership: first instant in, last month's final instant out.
	if !got.Contains(time.Date(2026, 2, 1, 0, 0, 0, 0, loc)) {
		t.Error("first instant of month should be inside the window")
	}
	if got.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)) {
		t.Error("first instant of next month should be outside the window")
	}
}

func TestDayWindow_SingleDay(t *testing.T) {
	loc := time.UTC
	got := DayWindow(time.Date(2026, 5, 10, 18, 45, 0, 0, loc), loc)
	if !got.From.Equal(time.Date(2026, 5, 10, 0, 0, 0, 0, loc)) || !got.To.Equal(time.Date(2026, 5, 11, 0, 0, 0, 0, loc)) {
		t.Errorf("window = [%v, %v)", got.From, got.To)
	}
}

func TestFilterBookings_ConjunctiveFacets(t *testing.T) {
	loc := time.UTC
	base := time.Date(2026, 4, 6, 10, 0, 0, 0, loc)
	bookings := []*Booking{
		mkBooking(1, 1, "Ada Wong", "Intro Call", LocationTypeZoom, BookingStatusScheduled, base),
		mkBooking(2, 2, "Ben Ito", "Strategy Session", LocationTypePhone, BookingStatusScheduled, base.Add(time.Hour)),
		mkBooking(3, 1, "Cara Singh", "Intro Call", LocationTypeZoom, BookingStatusCanceled, base.Add(2*time.Hour)),
	}

	got := FilterBookings(bookings, CalendarFilter{
		MeetingTypeIds: []int{1},
		Statuses:       []BookingStatus{BookingStatusScheduled},
	})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only booking 1, got %d results", len(got))
	}

	// Search matches invitee or meeting name, case-insensitive.
	got = FilterBookings(bookings, CalendarFilter{Search: "strategy"})
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("search should match meeting name, got %d results", len(got))
	}
	got = FilterBookings(bookings, CalendarFilter{Search: "ADA"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("search should match invitee name case-insensitively, got %d results", len(got))
	}

	// Empty filter keeps everything.
	if got := FilterBookings(bookings, CalendarFilter{}); len(got) != 3 {
		t.Fatalf("empty filter should keep all bookings, got %d", len(got))
	}
}

func TestPartitionBookings_StatusBeatsDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 4, 6, 12, 0, 0, 0, loc)
	bookings := []*Booking{
		mkBooking(1, 1, "a", "m", LocationTypeZoom, BookingStatusScheduled, now.Add(2*time.Hour)),  // today
		mkBooking(2, 1, "b", "m", LocationTypeZoom, BookingStatusScheduled, now.AddDate(0, 0, 3)),  // upcoming
		mkBooking(3, 1, "c", "m", LocationTypeZoom, BookingStatusScheduled, now.AddDate(0, 0, -2)), // past by date
		mkBooking(4, 1, "d", "m", LocationTypeZoom, BookingStatusCanceled, now.Add(time.Hour)),     // today's date, canceled
		mkBooking(5, 1, "e", "m", LocationTypeZoom, BookingStatusCompleted, now.AddDate(0, 0, 5)),  // future date, completed
		mkBooking(6, 1, "f", "m", LocationTypeZoom, BookingStatusScheduled, now.Add(-3*time.Hour)), // earlier today, still scheduled
		mkBooking(7, 1, "g", "m", LocationTypeZoom, BookingStatusScheduled, now.AddDate(0, 0, 1)),  // tomorrow
	}

	part := PartitionBookings(bookings, now, loc)

	wantToday := []int{1, 6}
	wantUpcoming := []int{2, 7}
	wantPast := []int{3, 4, 5}

	checkIDs := func(name string, got []*Booking, want []int) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("%s: got %d bookings, want %d", name, len(got), len(want))
		}
		seen := map[int]bool{}
		for _, b := range got {
			seen[b.ID] = true
		}
		for _, id := range want {
			if !seen[id] {
				t.Errorf("%s: missing booking %d", name, id)
			}
		}
	}
	checkIDs("Today", part.Today, wantToday)
	checkIDs("Upcoming", part.Upcoming, wantUpcoming)
	checkIDs("Past", part.Past, wantPast)

	// Completeness: every booking lands in exactly one bucket.
	if len(part.Today)+len(part.Upcoming)+len(part.Past) != len(bookings) {
		t.Fatalf("partition is not complete: %d+%d+%d != %d",
			len(part.Today), len(part.Upcoming), len(part.Past), len(bookings))
	}
}

func TestWindowFor_ListViewHasNoWindow(t *testing.T) {
	if _, ok := WindowFor(CalendarViewList, time.Now(), time.UTC); ok {
		t.Error("list view should not derive a window")
	}
	if _, ok := WindowFor(CalendarViewWeek, time.Now(), time.UTC); !ok {
		t.Error("week view should derive a window")
	}
}
