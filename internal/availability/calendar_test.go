package availability

import (
	"testing"
	"time"

	"scootal/pkg/model"
)

func weeklyOpen(day model.Weekday, open, close string) model.WeeklyAvailability {
	av := model.WeeklyAvailability{}
	for _, d := range model.Weekdays {
		av[d] = model.DayWindow{Open: false}
	}
	av[day] = model.DayWindow{Open: true, OpenTime: open, CloseTime: close}
	return av
}

func TestIsAvailableAt_InsideWindow(t *testing.T) {
	av := weeklyOpen(model.Monday, "09:00", "17:00")

	// Monday 2026-01-05 10:30 UTC
	instant := time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC)

	if !IsAvailableAt(av, time.UTC, instant) {
		t.Error("expected Monday 10:30 to be available within 09:00-17:00")
	}
}

func TestIsAvailableAt_BoundariesInclusive(t *testing.T) {
	av := weeklyOpen(model.Monday, "09:00", "17:00")

	openEdge := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	closeEdge := time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC)
	past := time.Date(2026, 1, 5, 17, 1, 0, 0, time.UTC)

	if !IsAvailableAt(av, time.UTC, openEdge) {
		t.Error("expected 09:00 exactly to be available")
	}
	if !IsAvailableAt(av, time.UTC, closeEdge) {
		t.Error("expected 17:00 exactly to be available")
	}
	if IsAvailableAt(av, time.UTC, past) {
		t.Error("expected 17:01 to be unavailable")
	}
}

func TestIsAvailableAt_ClosedDay(t *testing.T) {
	av := weeklyOpen(model.Monday, "09:00", "17:00")

	// Tuesday same week
	instant := time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC)

	if IsAvailableAt(av, time.UTC, instant) {
		t.Error("expected closed Tuesday to be unavailable regardless of time")
	}
}

func TestIsAvailableAt_ZoneConversion(t *testing.T) {
	av := weeklyOpen(model.Monday, "09:00", "17:00")

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}

	// Tuesday 02:00 UTC is Monday 21:00 in New York (EST): closed.
	lateUTC := time.Date(2026, 1, 6, 2, 0, 0, 0, time.UTC)
	if IsAvailableAt(av, loc, lateUTC) {
		t.Error("expected Monday 21:00 local to be outside the window")
	}

	// Monday 15:00 UTC is Monday 10:00 in New York: open.
	midUTC := time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)
	if !IsAvailableAt(av, loc, midUTC) {
		t.Error("expected Monday 10:00 local to be available")
	}
}

func TestIsAvailableAt_MalformedTimes(t *testing.T) {
	av := model.WeeklyAvailability{
		model.Monday: {Open: true, OpenTime: "9:00", CloseTime: "17:00"},
	}

	instant := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	if IsAvailableAt(av, time.UTC, instant) {
		t.Error("expected malformed open_time to make the day unavailable")
	}
}

func TestSupportsWindow_ClassGate(t *testing.T) {
	asset := &model.Asset{
		AllowSixHour: true,
		AllowFullDay: false,
		Availability: weeklyOpen(model.Monday, "09:00", "17:00"),
		TimeZone:     "UTC",
	}

	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	if !SupportsWindow(asset, start, model.SixHour) {
		t.Error("expected 6h rental to be supported")
	}
	if SupportsWindow(asset, start, model.FullDay) {
		t.Error("expected 24h rental to be refused when the owner disallows it")
	}
}

func TestSupportsWindow_ChecksStartOnly(t *testing.T) {
	asset := &model.Asset{
		AllowSixHour: true,
		Availability: weeklyOpen(model.Monday, "09:00", "17:00"),
		TimeZone:     "UTC",
	}

	// 14:00 start runs past the 17:00 close, but only the start instant
	// is matched against the calendar.
	start := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
	if !SupportsWindow(asset, start, model.SixHour) {
		t.Error("expected start inside the window to be enough")
	}
}

func TestLocation_Fallbacks(t *testing.T) {
	if Location("") != time.UTC {
		t.Error("expected empty zone to fall back to UTC")
	}
	if Location("Not/AZone") != time.UTC {
		t.Error("expected unknown zone to fall back to UTC")
	}
	if Location("America/New_York") == time.UTC {
		t.Error("expected a real zone to load")
	}
}
