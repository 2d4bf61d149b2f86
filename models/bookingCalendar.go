package models

import (
	"strings"
	"time"
)

// Calendar projections over the booking list. All functions here are pure:
// they take bookings already loaded for the account and slice them for a
// view, so they stay testable without a database.

type CalendarView string

const (
	CalendarViewDay   CalendarView = "day"
	CalendarViewWeek  CalendarView = "week"
	CalendarViewMonth CalendarView = "month"
	CalendarViewList  CalendarView = "list"
)

// CalendarFilter narrows bookings conjunctively: every set facet must match.
type CalendarFilter struct {
	MeetingTypeIds []int
	Statuses       []BookingStatus
	Locations      []LocationType
	Search         string
}

// CalendarWindow is a half-open interval [From, To).
type CalendarWindow struct {
	From time.Time
	To   time.Time
}

func (w CalendarWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// DayWindow covers the single calendar day containing ref.
func DayWindow(ref time.Time, loc *time.Location) CalendarWindow {
	ref = ref.In(loc)
	from := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	return CalendarWindow{From: from, To: from.AddDate(0, 0, 1)}
}

// WeekWindow covers the Monday-start 7-day week containing ref.
func WeekWindow(ref time.Time, loc *time.Location) CalendarWindow {
	ref = ref.In(loc)
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	// time.Weekday is Sunday=0; shift so Monday starts the week.
	offset := (int(day.Weekday()) + 6) % 7
	from := day.AddDate(0, 0, -offset)
	return CalendarWindow{From: from, To: from.AddDate(0, 0, 7)}
}

// MonthWindow covers the calendar month containing ref.
func MonthWindow(ref time.Time, loc *time.Location) CalendarWindow {
	ref = ref.In(loc)
	from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	return CalendarWindow{From: from, To: from.AddDate(0, 1, 0)}
}

// WindowFor derives the time window for a view and reference date. The list
// view has no window.
func WindowFor(view CalendarView, ref time.Time, loc *time.Location) (CalendarWindow, bool) {
	switch view {
	case CalendarViewDay:
		return DayWindow(ref, loc), true
	case CalendarViewWeek:
		return WeekWindow(ref, loc), true
	case CalendarViewMonth:
		return MonthWindow(ref, loc), true
	default:
		return CalendarWindow{}, false
	}
}

func (f CalendarFilter) matches(b *Booking) bool {
	if len(f.MeetingTypeIds) > 0 && !containsInt(f.MeetingTypeIds, b.MeetingTypeId) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
		return false
	}
	if len(f.Locations) > 0 && !containsLocation(f.Locations, b.Location) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.InviteeName), needle) &&
			!strings.Contains(strings.ToLower(b.MeetingName), needle) {
			return false
		}
	}
	return true
}

// FilterBookings applies the conjunctive facet filter.
func FilterBookings(bookings []*Booking, filter CalendarFilter) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter.matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// BookingsInWindow keeps bookings whose start falls inside the window.
func BookingsInWindow(bookings []*Booking, window CalendarWindow) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if window.Contains(b.StartsAt) {
			out = append(out, b)
		}
	}
	return out
}

// BookingPartition is the list view's three-way grouping.
type BookingPartition struct {
	Today    []*Booking
	Upcoming []*Booking
	Past     []*Booking
}

// PartitionBookings groups bookings for the list view. Status beats date:
// a Completed or Canceled booking lands in Past even when it is dated today
// or later. Scheduled bookings split by calendar day against now.
func PartitionBookings(bookings []*Booking, now time.Time, loc *time.Location) BookingPartition {
	part := BookingPartition{}
	today := DayWindow(now, loc)
	for _, b := range bookings {
		if b.Status != BookingStatusScheduled {
			part.Past = append(part.Past, b)
			continue
		}
		starts := b.StartsAt.In(loc)
		switch {
		case today.Contains(starts):
			part.Today = append(part.Today, b)
		case starts.After(today.To) || starts.Equal(today.To):
			part.Upcoming = append(part.Upcoming, b)
		default:
			part.Past = append(part.Past, b)
		}
	}
	return part
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsStatus(xs []BookingStatus, x BookingStatus) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsLocation(xs []LocationType, x LocationType) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
