package availability

import (
	"time"

	"scootal/pkg/model"
)

// IsAvailableAt reports whether the weekly calendar is open at the given
// instant. The instant is converted to the asset's zone first; the window
// check runs at minute granularity, inclusive at both ends.
func IsAvailableAt(av model.WeeklyAvailability, loc *time.Location, instant time.Time) bool {
	local := instant.In(loc)

	day, ok := av[model.WeekdayOf(local.Weekday())]
	if !ok || !day.Open {
		return false
	}

	open, ok := minuteOfDay(day.OpenTime)
	if !ok {
		return false
	}
	close, ok := minuteOfDay(day.CloseTime)
	if !ok {
		return false
	}

	minute := local.Hour()*60 + local.Minute()
	return minute >= open && minute <= close
}

// SupportsWindow reports whether the asset can be rented for the class
// starting at the given instant: the owner must permit the class and the
// calendar must be open at the start.
func SupportsWindow(asset *model.Asset, start time.Time, class model.DurationClass) bool {
	if !asset.Allows(class) {
		return false
	}

	loc := Location(asset.TimeZone)
	return IsAvailableAt(asset.Availability, loc, start)
}

// Location resolves an IANA zone name, falling back to UTC when the name is
// empty or unknown.
func Location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// minuteOfDay parses "HH:MM" wall-clock strings into minutes since midnight.
func minuteOfDay(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' ||
		s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
