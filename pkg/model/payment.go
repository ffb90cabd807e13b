package model

import (
	"time"
)

// Payment record status values. A record is created alongside the processor
// intent and only ever advanced by processor confirmation.
const (
	PaymentCreated  = "created"
	PaymentCaptured = "captured"
	PaymentFailed   = "failed"
)

type PaymentRecord struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID string `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	IntentID  string `json:"intent_id" bson:"intent_id" validate:"required"`

	AmountCents      int64 `json:"amount_cents" bson:"amount_cents" validate:"min=0"`
	PlatformFeeCents int64 `json:"platform_fee_cents" bson:"platform_fee_cents" validate:"min=0"`

	Status   string `json:"status" bson:"status" validate:"required,oneof=created captured failed"`
	Refunded bool   `json:"refunded" bson:"refunded"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Provider is an owner's payout sub-account with the payment processor.
// Payouts are blocked until onboarding completes.
type Provider struct {
	OwnerID   string    `json:"owner_id" bson:"_id" validate:"required"`
	AccountID string    `json:"account_id" bson:"account_id" validate:"required"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Onboarded bool      `json:"onboarded" bson:"onboarded"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
