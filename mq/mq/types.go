package mq

import "melbgo/trip"

// DocumentMessage announces that the named top-level fields of a trip
// document were written. Subscribers re-read the document on receipt;
// the message intentionally carries no data payload, so a client that
// echoes its own write simply reloads an identical snapshot.
type DocumentMessage struct {
	TripID string       `json:"tripId"`
	Fields []trip.Field `json:"fields"`
}

func (m DocumentMessage) GetTopic() string {
	return m.TripID
}
