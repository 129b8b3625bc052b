package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"melbgo/mq/mq"
)

const (
	// All document-change events go through this exchange.
	exchangeName = "trip_document_exchange"
)

func routingKeyForTrip(tripID string) string {
	return fmt.Sprintf("document.%s", tripID)
}

type consumerEntry struct {
	ch          chan mq.DocumentMessage
	amqpChannel *amqp091.Channel
}

// rabbitDocumentMessageQueue implements mq.DocumentMessageQueue over a
// RabbitMQ topic exchange. Every subscriber gets its own exclusive
// queue bound to the trip's routing key, so notifications reach all
// connected processes.
type rabbitDocumentMessageQueue struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	mu      sync.RWMutex // protects the consumers map
	consumers map[uuid.UUID]*consumerEntry
}

// NewRabbitDocumentMessageQueue creates a RabbitMQ-backed document
// change queue on an existing connection.
func NewRabbitDocumentMessageQueue(conn *amqp091.Connection) (mq.DocumentMessageQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchangeName, "topic", true, false, false, false, nil,
	); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchangeName, err)
	}

	return &rabbitDocumentMessageQueue{
		conn:      conn,
		channel:   ch,
		consumers: make(map[uuid.UUID]*consumerEntry),
	}, nil
}

// Publish sends a DocumentMessage to the exchange keyed by trip.
func (q *rabbitDocumentMessageQueue) Publish(msg mq.DocumentMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx,
		exchangeName,                 // exchange
		routingKeyForTrip(msg.TripID), // routing key
		false,                        // mandatory
		false,                        // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe opens an exclusive queue for one subscriber of a trip and
// returns a read-only channel of its change notifications.
func (q *rabbitDocumentMessageQueue) Subscribe(tripID string) (uuid.UUID, <-chan mq.DocumentMessage, error) {
	subscriberID := uuid.New()

	amqpChannel, err := q.conn.Channel()
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	queueName := fmt.Sprintf("trip_doc_%s_%s", tripID, subscriberID)
	if err := DeclareQueueAndExchange(amqpChannel, queueName, exchangeName, routingKeyForTrip(tripID)); err != nil {
		amqpChannel.Close()
		return uuid.Nil, nil, err
	}

	msgs, err := amqpChannel.Consume(
		queueName, // queue
		"",        // consumer
		true,      // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		amqpChannel.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	outputChan := make(chan mq.DocumentMessage)

	q.mu.Lock()
	q.consumers[subscriberID] = &consumerEntry{ch: outputChan, amqpChannel: amqpChannel}
	q.mu.Unlock()

	go func() {
		// The forward goroutine owns outputChan: it is the only closer,
		// whether the stream ends by DeSubscribe or by connection loss.
		defer func() {
			q.mu.Lock()
			delete(q.consumers, subscriberID)
			q.mu.Unlock()
			close(outputChan)
		}()

		for d := range msgs {
			var msg mq.DocumentMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Failed to unmarshal DocumentMessage: %v", err)
				continue
			}

			q.mu.RLock()
			entry, ok := q.consumers[subscriberID]
			q.mu.RUnlock()
			if !ok {
				// Consumer was unsubscribed while message was in flight.
				log.Printf("DocumentMessage consumer %s no longer active. Skipping message.", subscriberID)
				return
			}

			select {
			case entry.ch <- msg:
			case <-time.After(1 * time.Second): // Prevent blocking indefinitely
				log.Printf("Timeout sending message to DocumentMessage consumer %s. Skipping.", subscriberID)
			}
		}
	}()

	return subscriberID, outputChan, nil
}

// DeSubscribe removes a subscriber by its ID and closes its queue.
func (q *rabbitDocumentMessageQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	entry, ok := q.consumers[subscriberID]
	if ok {
		delete(q.consumers, subscriberID)
	}
	q.mu.Unlock()

	if !ok {
		return fmt.Errorf("consumer with ID %s not found", subscriberID)
	}
	// Closing the channel ends the Consume delivery stream; the forward
	// goroutine exits on its own.
	return entry.amqpChannel.Close()
}

func (q *rabbitDocumentMessageQueue) Close() error {
	q.mu.Lock()
	for id, entry := range q.consumers {
		entry.amqpChannel.Close()
		delete(q.consumers, id)
	}
	q.mu.Unlock()
	return q.channel.Close()
}
