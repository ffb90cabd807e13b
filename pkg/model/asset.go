package model

import (
	"time"
)

// Exclusivity states for an asset. At most one booking may hold the claim.
const (
	ExclusivityNone    = "none"
	ExclusivityClaimed = "claimed"
	ExclusivityActive  = "active"
)

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

var Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf maps a time.Weekday to the lowercase calendar key used in storage.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekdays[int(d)]
}

// DayWindow is one weekday's rentable window in local wall-clock time,
// "HH:MM" with minute granularity. OpenTime <= CloseTime when Open.
type DayWindow struct {
	Open      bool   `json:"open" bson:"open"`
	OpenTime  string `json:"open_time,omitempty" bson:"open_time,omitempty" validate:"omitempty,valid_time_of_day"`
	CloseTime string `json:"close_time,omitempty" bson:"close_time,omitempty" validate:"omitempty,valid_time_of_day"`
}

// WeeklyAvailability holds exactly one window per weekday.
type WeeklyAvailability map[Weekday]DayWindow

type DurationClass string

const (
	SixHour DurationClass = "6h"
	FullDay DurationClass = "24h"
)

func (c DurationClass) Valid() bool {
	return c == SixHour || c == FullDay
}

func (c DurationClass) Duration() time.Duration {
	if c == FullDay {
		return 24 * time.Hour
	}
	return 6 * time.Hour
}

type Asset struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string `json:"owner_id" bson:"owner_id" validate:"required"`
	Name        string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	Location    string `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Brand       string `json:"brand,omitempty" bson:"brand,omitempty" validate:"omitempty,max=50"`
	ModelName   string `json:"model_name,omitempty" bson:"model_name,omitempty" validate:"omitempty,max=50"`
	IsElectric  bool   `json:"is_electric" bson:"is_electric"`
	TopSpeed    int    `json:"top_speed,omitempty" bson:"top_speed,omitempty" validate:"omitempty,min=0,max=120"`

	AllowSixHour bool `json:"allow_6h" bson:"allow_6h"`
	AllowFullDay bool `json:"allow_24h" bson:"allow_24h"`

	SixHourPriceCents int64 `json:"six_hour_price_cents" bson:"six_hour_price_cents" validate:"min=0"`
	FullDayPriceCents int64 `json:"full_day_price_cents" bson:"full_day_price_cents" validate:"min=0"`

	Availability WeeklyAvailability `json:"availability" bson:"availability" validate:"required"`
	TimeZone     string             `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`

	Exclusivity string `json:"exclusivity" bson:"exclusivity" validate:"required,oneof=none claimed active"`
	Featured    bool   `json:"featured" bson:"featured"`
	Confirmed   bool   `json:"confirmed" bson:"confirmed"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Allows reports whether the owner permits rentals of the given class.
func (a *Asset) Allows(class DurationClass) bool {
	switch class {
	case SixHour:
		return a.AllowSixHour
	case FullDay:
		return a.AllowFullDay
	default:
		return false
	}
}

// PriceCents returns the listed price for the class, in cents.
func (a *Asset) PriceCents(class DurationClass) int64 {
	if class == FullDay {
		return a.FullDayPriceCents
	}
	return a.SixHourPriceCents
}
