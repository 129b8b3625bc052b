package goch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"melbgo/mq/goch"
	"melbgo/mq/mq"
	"melbgo/trip"
)

func receiveWithTimeout(t *testing.T, ch <-chan mq.DocumentMessage) (mq.DocumentMessage, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return mq.DocumentMessage{}, false
	}
}

func TestPublishSubscribe(t *testing.T) {
	queue := goch.NewChannelDocumentMessageQueue(8)
	defer queue.Close()

	id, ch, err := queue.Subscribe(trip.ID)
	assert.NoError(t, err)
	defer func() { _ = queue.DeSubscribe(id) }()

	sent := mq.DocumentMessage{TripID: trip.ID, Fields: []trip.Field{trip.FieldTodos}}
	assert.NoError(t, queue.Publish(sent))

	got, ok := receiveWithTimeout(t, ch)
	assert.True(t, ok)
	assert.Equal(t, sent, got)
}

func TestTopicFiltering(t *testing.T) {
	queue := goch.NewChannelDocumentMessageQueue(8)
	defer queue.Close()

	_, tripCh, err := queue.Subscribe(trip.ID)
	assert.NoError(t, err)
	_, otherCh, err := queue.Subscribe("another-trip")
	assert.NoError(t, err)

	assert.NoError(t, queue.Publish(mq.DocumentMessage{TripID: trip.ID, Fields: []trip.Field{trip.FieldDays}}))

	msg, ok := receiveWithTimeout(t, tripCh)
	assert.True(t, ok)
	assert.Equal(t, trip.ID, msg.TripID)

	select {
	case unexpected := <-otherCh:
		t.Fatalf("subscriber of another topic received %+v", unexpected)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFanOutToMultipleSubscribers(t *testing.T) {
	queue := goch.NewChannelDocumentMessageQueue(8)
	defer queue.Close()

	_, ch1, err := queue.Subscribe(trip.ID)
	assert.NoError(t, err)
	_, ch2, err := queue.Subscribe(trip.ID)
	assert.NoError(t, err)

	assert.NoError(t, queue.Publish(mq.DocumentMessage{TripID: trip.ID}))

	_, ok := receiveWithTimeout(t, ch1)
	assert.True(t, ok, "first subscriber should receive")
	_, ok = receiveWithTimeout(t, ch2)
	assert.True(t, ok, "second subscriber should receive")
}

func TestDeSubscribeClosesChannel(t *testing.T) {
	queue := goch.NewChannelDocumentMessageQueue(8)
	defer queue.Close()

	id, ch, err := queue.Subscribe(trip.ID)
	assert.NoError(t, err)

	assert.NoError(t, queue.DeSubscribe(id))

	_, open := receiveWithTimeout(t, ch)
	assert.False(t, open, "channel must close on DeSubscribe")

	err = queue.DeSubscribe(id)
	assert.Error(t, err, "double DeSubscribe should report the missing subscriber")
}

func TestCloseRejectsFurtherUse(t *testing.T) {
	queue := goch.NewChannelDocumentMessageQueue(8)

	_, ch, err := queue.Subscribe(trip.ID)
	assert.NoError(t, err)

	assert.NoError(t, queue.Close())

	_, open := receiveWithTimeout(t, ch)
	assert.False(t, open, "close must release subscribers")

	err = queue.Publish(mq.DocumentMessage{TripID: trip.ID})
	assert.ErrorIs(t, err, goch.ErrQueueClosed)

	_, _, err = queue.Subscribe(trip.ID)
	assert.ErrorIs(t, err, goch.ErrQueueClosed)
}
