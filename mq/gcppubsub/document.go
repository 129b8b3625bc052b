package gcppubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	"melbgo/mq/mq"
)

const (
	tripIDAttribute = "tripId"
	topicID         = "trip-document-changes"
)

// subscriptionInfo holds details about an active Pub/Sub subscription.
type subscriptionInfo struct {
	gcpSubscription *pubsub.Subscription
	cancel          context.CancelFunc
}

// PubSubDocumentMessageQueue implements mq.DocumentMessageQueue on GCP
// Pub/Sub. Every Subscribe creates a filtered, expiring subscription so
// notifications reach all deployments of the app.
type PubSubDocumentMessageQueue struct {
	client              *pubsub.Client
	topic               *pubsub.Topic
	activeSubscriptions map[uuid.UUID]*subscriptionInfo
	subscriptionsMutex  sync.Mutex
	ctx                 context.Context
}

// NewPubSubDocumentMessageQueue creates the queue, ensuring the
// underlying Pub/Sub topic exists.
func NewPubSubDocumentMessageQueue(ctx context.Context, client *pubsub.Client) (*PubSubDocumentMessageQueue, error) {
	if client == nil {
		return nil, fmt.Errorf("GCP Pub/Sub client is nil")
	}

	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existence of topic %s: %w", topicID, err)
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, topicID)
		if err != nil {
			return nil, fmt.Errorf("failed to create topic %s: %w", topicID, err)
		}
		log.Printf("Created Pub/Sub topic: %s", topicID)
	}

	return &PubSubDocumentMessageQueue{
		client:              client,
		topic:               topic,
		activeSubscriptions: make(map[uuid.UUID]*subscriptionInfo),
		ctx:                 ctx,
	}, nil
}

// Publish sends a DocumentMessage to the topic with the tripId as an
// attribute for subscription-side filtering.
func (s *PubSubDocumentMessageQueue) Publish(msg mq.DocumentMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal DocumentMessage: %w", err)
	}

	pubsubMsg := &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			tripIDAttribute: msg.GetTopic(),
		},
	}

	// Publish is non-blocking. The client library handles batching and
	// retries; waiting on the result confirms delivery.
	result := s.topic.Publish(s.ctx, pubsubMsg)
	if _, err = result.Get(s.ctx); err != nil {
		return fmt.Errorf("failed to publish DocumentMessage to topic %s: %w", s.topic.ID(), err)
	}
	return nil
}

// Subscribe creates a new filtered subscription on GCP and starts
// listening for messages.
func (s *PubSubDocumentMessageQueue) Subscribe(tripID string) (uuid.UUID, <-chan mq.DocumentMessage, error) {
	subscriptionID := uuid.New() // Internal ID for tracking

	// Create a unique, descriptive subscription name for GCP.
	gcpSubName := fmt.Sprintf("sub-doc-%s-%s", tripID, subscriptionID.String())

	config := pubsub.SubscriptionConfig{
		Topic:            s.topic,
		Filter:           fmt.Sprintf("attributes.%s = \"%s\"", tripIDAttribute, tripID),
		ExpirationPolicy: 24 * time.Hour,
		AckDeadline:      10 * time.Second,
	}

	gcpSub, err := s.client.CreateSubscription(s.ctx, gcpSubName, config)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to create GCP subscription %s: %w", gcpSubName, err)
	}

	msgChan := make(chan mq.DocumentMessage, 5)
	receiveCtx, cancel := context.WithCancel(s.ctx)

	s.subscriptionsMutex.Lock()
	s.activeSubscriptions[subscriptionID] = &subscriptionInfo{
		gcpSubscription: gcpSub,
		cancel:          cancel,
	}
	s.subscriptionsMutex.Unlock()

	go func() {
		// Automatically clean up when the goroutine exits.
		defer func() {
			s.subscriptionsMutex.Lock()
			delete(s.activeSubscriptions, subscriptionID)
			s.subscriptionsMutex.Unlock()

			// Delete the subscription from GCP to prevent resource leaks.
			if deleteErr := gcpSub.Delete(context.Background()); deleteErr != nil {
				log.Printf("Error deleting GCP subscription %s: %v", gcpSub.ID(), deleteErr)
			}
			close(msgChan)
		}()

		// Receive blocks until the context is cancelled.
		err := gcpSub.Receive(receiveCtx, func(ctx context.Context, pubsubMsg *pubsub.Message) {
			pubsubMsg.Ack()

			var msg mq.DocumentMessage
			if err := json.Unmarshal(pubsubMsg.Data, &msg); err != nil {
				log.Printf("Error unmarshaling DocumentMessage for %s: %v. Body: %s", subscriptionID, err, string(pubsubMsg.Data))
				return
			}

			select {
			case msgChan <- msg:
			case <-time.After(2 * time.Second):
				log.Printf("Timeout sending DocumentMessage to msgChan for %s.", subscriptionID)
			case <-receiveCtx.Done():
				return
			}
		})

		if err != nil && err != context.Canceled {
			log.Printf("Error in Receive loop for subscription %s: %v", subscriptionID, err)
		}
	}()

	return subscriptionID, msgChan, nil
}

// DeSubscribe stops the message receiver and deletes the subscription
// from GCP.
func (s *PubSubDocumentMessageQueue) DeSubscribe(id uuid.UUID) error {
	s.subscriptionsMutex.Lock()
	info, ok := s.activeSubscriptions[id]
	if ok {
		// It's removed from the map inside the goroutine's defer block.
		// Here we just trigger the cancellation.
		info.cancel()
	}
	s.subscriptionsMutex.Unlock()

	if !ok {
		return fmt.Errorf("subscription ID %s not found", id)
	}
	return nil
}

func (s *PubSubDocumentMessageQueue) Close() error {
	s.subscriptionsMutex.Lock()
	for _, info := range s.activeSubscriptions {
		info.cancel()
	}
	s.subscriptionsMutex.Unlock()
	s.topic.Stop()
	return nil
}
