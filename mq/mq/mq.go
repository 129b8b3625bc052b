package mq

import "github.com/google/uuid"

// TopicProvider exposes the topic a message belongs to. Topics are trip
// document keys.
type TopicProvider interface {
	GetTopic() string
}

// Mode selects the change-notification backend at startup.
type Mode string

const (
	ModeGoChan    Mode = "go_chan"
	ModeRabbitMQ  Mode = "rabbitmq"
	ModeGCPPubSub Mode = "gcp_pub_sub"
)

// DocumentMessageQueue fans document-change notifications out to every
// live subscriber of a trip. Publish must not block the writer; delivery
// is best effort (a missed notification only delays the next snapshot).
type DocumentMessageQueue interface {
	Publish(msg DocumentMessage) error
	Subscribe(tripID string) (uuid.UUID, <-chan DocumentMessage, error)
	DeSubscribe(id uuid.UUID) error
	Close() error
}
