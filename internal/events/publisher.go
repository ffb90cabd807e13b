package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scootal/pkg/kafka"
	"scootal/pkg/logger"
	"scootal/pkg/model"
)

const source = "scootal-reservations"

// Publisher emits booking life-cycle events to Kafka.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewPublisher wires a producer for the topic. Returns nil when no brokers
// are configured; deployments without Kafka run unchanged.
func NewPublisher(brokers []string, topic string, log *logger.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, booking events disabled")
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers, topic)
	if err != nil {
		return nil, err
	}

	log.Info("Booking event publisher initialized", "topic", topic)
	return &Publisher{
		producer: producer,
		log:      log,
	}, nil
}

// PublishBookingEvent keys the message by booking ID so per-booking ordering
// holds within a partition.
func (p *Publisher) PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error {
	event := BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  booking.ID,
		AssetID:    booking.AssetID,
		RenterID:   booking.RenterID,
		OwnerID:    booking.OwnerID,
		Status:     booking.Status,
		TotalCents: booking.Price.TotalCents,
		OccurredAt: time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithHeader(kafka.HeaderEventID, event.EventID).
		WithEventType(eventType).
		WithSource(source).
		Build()

	return p.producer.Publish(ctx, msg)
}

// Close flushes and closes the underlying producer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
