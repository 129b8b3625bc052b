package state

import (
	"context"
	"log"

	"melbgo/mq/mq"
	st "melbgo/store/store"
	"melbgo/trip"
)

// Snapshot is one delivery of the live subscription. Exists is false
// when the trip document has never been created.
type Snapshot struct {
	Exists bool
	Doc    *trip.Document
}

// Adapter binds the document store and the change queue into the live
// subscription contract: subscribers get the current document
// immediately and a fresh read after every published change, including
// changes they caused themselves.
type Adapter struct {
	store st.DocumentStore
	queue mq.DocumentMessageQueue
}

func NewAdapter(store st.DocumentStore, queue mq.DocumentMessageQueue) *Adapter {
	return &Adapter{store: store, queue: queue}
}

// Subscribe starts the live feed for one trip. onSnapshot runs for the
// initial read and for every subsequent change notification; onError
// runs on transport failures without stopping the subscription. The
// returned func cancels the subscription.
func (a *Adapter) Subscribe(tripID string, onSnapshot func(Snapshot), onError func(error)) (func(), error) {
	load := func() (Snapshot, error) {
		doc, exists, err := a.store.Get(tripID)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Exists: exists, Doc: doc}, nil
	}

	// Initial read happens before the pump so the caller sees the
	// current document the moment the subscription exists.
	if snap, err := load(); err != nil {
		onError(err)
	} else {
		onSnapshot(snap)
	}

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan Snapshot)
	mq.SubscribeProcessor(tripID, ctx, a.queue, func(mq.DocumentMessage) (Snapshot, bool, error) {
		snap, err := load()
		if err != nil {
			onError(err)
			return Snapshot{}, true, nil
		}
		return snap, false, nil
	}, snapshots)

	go func() {
		for snap := range snapshots {
			onSnapshot(snap)
		}
	}()

	return func() { cancel() }, nil
}

// CreateIfAbsent seeds the trip document when it does not exist yet and
// notifies all subscribers.
func (a *Adapter) CreateIfAbsent(tripID string, seed *trip.Document) (bool, error) {
	created, err := a.store.CreateIfAbsent(tripID, seed)
	if err != nil {
		return false, err
	}
	if created {
		a.notify(tripID, append(append([]trip.Field{}, trip.CollectionFields...), trip.FieldVersion))
	}
	return created, nil
}

// Patch writes whole-field values and notifies all subscribers, the
// writer included.
func (a *Adapter) Patch(tripID string, fields st.FieldPatch) error {
	if err := a.store.Patch(tripID, fields); err != nil {
		return err
	}
	changed := make([]trip.Field, 0, len(fields))
	for f := range fields {
		changed = append(changed, f)
	}
	a.notify(tripID, changed)
	return nil
}

func (a *Adapter) notify(tripID string, fields []trip.Field) {
	if err := a.queue.Publish(mq.DocumentMessage{TripID: tripID, Fields: fields}); err != nil {
		log.Printf("failed to publish document change: %v", err)
	}
}
