package kafka

import (
	"testing"
)

func TestMessageBuilder(t *testing.T) {
	payload := map[string]string{"booking_id": "abc123"}

	msg := NewMessage().
		WithKey("abc123").
		WithValue(payload).
		WithEventType("booking.requested").
		WithSource("scootal-reservations").
		Build()

	if msg.Key != "abc123" {
		t.Errorf("expected key abc123, got %q", msg.Key)
	}
	if msg.GetEventType() != "booking.requested" {
		t.Errorf("expected event type booking.requested, got %q", msg.GetEventType())
	}
	if msg.GetEventID() == "" {
		t.Error("expected a generated event ID")
	}
	if _, ok := msg.GetHeader(HeaderTimestamp); !ok {
		t.Error("expected a timestamp header")
	}
	if source, _ := msg.GetHeader(HeaderSource); source != "scootal-reservations" {
		t.Errorf("expected source header, got %q", source)
	}

	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatalf("failed to decode value: %v", err)
	}
	if decoded["booking_id"] != "abc123" {
		t.Errorf("expected booking_id abc123, got %q", decoded["booking_id"])
	}
}

func TestMessageBuilder_PreservesExplicitEventID(t *testing.T) {
	msg := NewMessage().
		WithKey("abc123").
		WithValue("payload").
		WithHeader(HeaderEventID, "evt-42").
		Build()

	if msg.GetEventID() != "evt-42" {
		t.Errorf("expected evt-42, got %q", msg.GetEventID())
	}
}
