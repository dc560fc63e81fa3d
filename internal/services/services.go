package services

import "log/slog"

// Broadcaster delivers an event to every connection currently joined to a
// room. Delivery is fire-and-forget: an empty room is a no-op and there is
// no queueing for members that join later.
type Broadcaster interface {
	BroadcastRoom(room, event string, payload interface{})
}

// EventSink receives a copy of every persisted message and dispatched
// notification, e.g. for a Kafka firehose. A nil sink disables publishing.
type EventSink interface {
	Publish(key string, payload interface{}) error
}

func publish(sink EventSink, key string, payload interface{}) {
	if sink == nil {
		return
	}
	if err := sink.Publish(key, payload); err != nil {
		slog.Error("Failed to publish event", "key", key, "error", err)
	}
}
