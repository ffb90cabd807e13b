package model

import (
	"time"
)

// Booking status values. Rejected and completed are terminal.
const (
	StatusRequested = "requested"
	StatusAccepted  = "accepted"
	StatusActive    = "active"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// PriceBreakdown is the renter-facing quote, in cents.
// Total = Base + UnlockFee + FeesAndTaxes.
type PriceBreakdown struct {
	BaseCents         int64 `json:"base_cents" bson:"base_cents" validate:"min=0"`
	UnlockFeeCents    int64 `json:"unlock_fee_cents" bson:"unlock_fee_cents" validate:"min=0"`
	FeesAndTaxesCents int64 `json:"fees_and_taxes_cents" bson:"fees_and_taxes_cents" validate:"min=0"`
	TotalCents        int64 `json:"total_cents" bson:"total_cents" validate:"min=0"`
}

type Booking struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AssetID  string `json:"asset_id" bson:"asset_id" validate:"required,mongodb"`
	RenterID string `json:"renter_id" bson:"renter_id" validate:"required"`
	OwnerID  string `json:"owner_id" bson:"owner_id" validate:"required"`

	StartTime     time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	DurationClass DurationClass `json:"duration_class" bson:"duration_class" validate:"required,oneof=6h 24h"`

	Price PriceBreakdown `json:"price" bson:"price"`

	// ConfirmationCode is a single-use 6-digit shared secret verifying the
	// physical return. Cleared on completion.
	ConfirmationCode string `json:"-" bson:"confirmation_code,omitempty"`
	CodeAttempts     int    `json:"-" bson:"code_attempts"`

	Status    string    `json:"status" bson:"status" validate:"required,oneof=requested accepted active rejected completed"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Terminal reports whether the booking can no longer transition.
func (b *Booking) Terminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCompleted
}

// BookingRequest is the renter-supplied input; window end and pricing are
// derived from the asset's class price.
type BookingRequest struct {
	AssetID       string        `json:"asset_id" validate:"required,mongodb"`
	RenterID      string        `json:"renter_id" validate:"required"`
	StartTime     time.Time     `json:"start_time" validate:"required"`
	DurationClass DurationClass `json:"duration_class" validate:"required,oneof=6h 24h"`
}
