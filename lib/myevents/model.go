package myevents

import (
	"fmt"
	"time"
)

// EventEnvelope is kept in the outbox until published; its json form is what subscribers receive
type EventEnvelope struct {
	UID           string    `json:"uid"`
	CreatedAt     time.Time `json:"createdAt"`
	Topic         string    `json:"topic"`
	AggregateUID  string    `json:"aggregateUid"`
	EventTypeName string    `json:"eventTypeName"`
	EventPayload  string    `json:"eventPayload" datastore:",noindex"`
	Published     bool      `json:"-"`
}

func (e EventEnvelope) String() string {
	return fmt.Sprintf("%s(%s)#%s", e.EventTypeName, e.AggregateUID, e.UID)
}

// TriggerPath is the callback the task queue invokes to publish this envelope
func (e EventEnvelope) TriggerPath() string {
	return fmt.Sprintf("/pubsub/%s/%s", e.Topic, e.UID)
}

type Event interface {
	GetEventTypeName() string
	GetAggregateName() string
}
