package goch

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"melbgo/mq/mq"
)

// QueueError is a sentinel error type for channel queue conditions.
type QueueError string

func (e QueueError) Error() string {
	return string(e)
}

const (
	ErrQueueFull   QueueError = "message queue is full"
	ErrQueueClosed QueueError = "message queue is closed"
)

type subscriberEntry[M any] struct {
	topic string
	ch    chan M
}

// fanOutQueueCore is a topic-filtered fan-out over go channels: one
// publish channel drained by a dispatch goroutine that copies each
// message to every subscriber of its topic. Slow subscribers drop
// messages rather than stall the dispatcher.
type fanOutQueueCore[M mq.TopicProvider] struct {
	publishChan chan M
	subscribers map[uuid.UUID]subscriberEntry[M]
	mu          sync.RWMutex
	quit        chan struct{}
	stopOnce    sync.Once
	bufferSize  int
}

func newFanOutQueueCore[M mq.TopicProvider](bufferSize int) *fanOutQueueCore[M] {
	core := &fanOutQueueCore[M]{
		publishChan: make(chan M, bufferSize),
		subscribers: make(map[uuid.UUID]subscriberEntry[M]),
		quit:        make(chan struct{}),
		bufferSize:  bufferSize,
	}
	go core.run()
	return core
}

func (c *fanOutQueueCore[M]) run() {
	for {
		select {
		case msg := <-c.publishChan:
			c.dispatch(msg)
		case <-c.quit:
			c.mu.Lock()
			for id, sub := range c.subscribers {
				close(sub.ch)
				delete(c.subscribers, id)
			}
			c.mu.Unlock()
			return
		}
	}
}

func (c *fanOutQueueCore[M]) dispatch(msg M) {
	topic := msg.GetTopic()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for id, sub := range c.subscribers {
		if sub.topic != topic {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			log.Printf("Subscriber %s is not draining, dropping message for topic %s.", id, topic)
		}
	}
}

func (c *fanOutQueueCore[M]) Publish(msg M) error {
	select {
	case <-c.quit:
		return ErrQueueClosed
	default:
	}
	select {
	case c.publishChan <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *fanOutQueueCore[M]) Subscribe(topic string) (uuid.UUID, <-chan M, error) {
	select {
	case <-c.quit:
		return uuid.Nil, nil, ErrQueueClosed
	default:
	}

	id := uuid.New()
	buffer := c.bufferSize
	if buffer == 0 {
		buffer = 1
	}
	ch := make(chan M, buffer)

	c.mu.Lock()
	c.subscribers[id] = subscriberEntry[M]{topic: topic, ch: ch}
	c.mu.Unlock()

	return id, ch, nil
}

func (c *fanOutQueueCore[M]) DeSubscribe(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subscribers[id]
	if !ok {
		return QueueError("subscriber " + id.String() + " not found")
	}
	close(sub.ch)
	delete(c.subscribers, id)
	return nil
}

func (c *fanOutQueueCore[M]) Stop() {
	c.stopOnce.Do(func() {
		close(c.quit)
	})
}

// ChannelDocumentMessageQueue implements mq.DocumentMessageQueue inside
// one process. It is the default backend for dev and tests.
type ChannelDocumentMessageQueue struct {
	core *fanOutQueueCore[mq.DocumentMessage]
}

// NewChannelDocumentMessageQueue creates a new in-process queue.
// bufferSize determines the dispatch and subscriber channel capacities.
func NewChannelDocumentMessageQueue(bufferSize int) *ChannelDocumentMessageQueue {
	return &ChannelDocumentMessageQueue{
		core: newFanOutQueueCore[mq.DocumentMessage](bufferSize),
	}
}

func (q *ChannelDocumentMessageQueue) Publish(msg mq.DocumentMessage) error {
	return q.core.Publish(msg)
}

func (q *ChannelDocumentMessageQueue) Subscribe(tripID string) (uuid.UUID, <-chan mq.DocumentMessage, error) {
	return q.core.Subscribe(tripID)
}

func (q *ChannelDocumentMessageQueue) DeSubscribe(id uuid.UUID) error {
	return q.core.DeSubscribe(id)
}

func (q *ChannelDocumentMessageQueue) Close() error {
	q.core.Stop()
	return nil
}
