package events

import "time"

// Booking life-cycle event types, published after committed transitions.
const (
	TypeBookingRequested = "booking.requested"
	TypeBookingAccepted  = "booking.accepted"
	TypeBookingRejected  = "booking.rejected"
	TypeBookingCompleted = "booking.completed"
)

// BookingEvent is the wire payload keyed by booking ID.
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	AssetID    string    `json:"asset_id"`
	RenterID   string    `json:"renter_id"`
	OwnerID    string    `json:"owner_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}
