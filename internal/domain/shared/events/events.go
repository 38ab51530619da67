package events

import "time"

// Event is a fact recorded by an aggregate and relayed through the outbox.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Recorder collects events inside an aggregate until the handler drains them
// into the outbox within the same transaction.
type Recorder struct {
	pending []Event
}

func (r *Recorder) Record(ev Event) {
	if ev == nil {
		return
	}
	r.pending = append(r.pending, ev)
}

// Drain returns the recorded events and resets the recorder.
func (r *Recorder) Drain() []Event {
	out := r.pending
	r.pending = nil
	return out
}

// Base carries the common event fields; domain events embed it.
type Base struct {
	Name      string
	Aggregate string
	Time      time.Time
}

func (b Base) EventName() string     { return b.Name }
func (b Base) AggregateID() string   { return b.Aggregate }
func (b Base) OccurredAt() time.Time { return b.Time }
