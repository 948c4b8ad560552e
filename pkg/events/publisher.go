package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys of booking events
const (
	BookingPlaced    = "booking.placed"
	BookingCancelled = "booking.cancelled"
)

// BookingPlacedEvent is published after an allocator call commits
type BookingPlacedEvent struct {
	BookingID      string  `json:"bookingId"`
	FlightID       int64   `json:"flightId"`
	PassengerID    int64   `json:"passengerId"`
	FlightClass    string  `json:"flightClass"`
	ConfirmedSeats int     `json:"confirmedSeats"`
	WaitingSeats   int     `json:"waitingSeats"`
	AmountCharged  float64 `json:"amountCharged"`
	BookingTime    int64   `json:"bookingTime"`
}

// BookingCancelledEvent is published after a seat row is cancelled
type BookingCancelledEvent struct {
	RowID       int64  `json:"rowId"`
	BookingID   string `json:"bookingId,omitempty"`
	FlightID    int64  `json:"flightId"`
	PassengerID int64  `json:"passengerId,omitempty"`
	CancelledAt int64  `json:"cancelledAt"`
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
	Close() error
}

// RabbitPublisher publishes JSON events to a durable topic exchange
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewRabbitPublisher dials the broker and declares the exchange
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: exchange declare failed: %w", err)
	}

	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish marshals event and sends it as a persistent message
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}

// Close closes the channel and the connection
func (p *RabbitPublisher) Close() error {
	_ = p.ch.Close()
	return p.conn.Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
