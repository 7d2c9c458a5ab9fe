// Package ops is an in-process event bus that lets operators watch what
// the orchestrators are doing. It keeps the most recent events so a new
// watcher sees some history before live events arrive.
package ops

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of events retained for snapshots.
const DefaultCapacity = 100

// Source identifies the component that emitted an event.
type Source string

const (
	SourceScenario Source = "scenario"
	SourceGrader   Source = "grader"
	SourceNext     Source = "next"
	SourceWorkflow Source = "workflow"
	SourceUser     Source = "user"
)

// Event is one entry on the bus.
type Event struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Source Source    `json:"source"`
	Type   string    `json:"type"`
	StepID string    `json:"stepId,omitempty"`
	Data   any       `json:"data,omitempty"`
}

// Bus fans events out to subscribers and keeps a ring buffer of the last
// events. A nil *Bus discards everything.
type Bus struct {
	mu     sync.Mutex
	ring   []Event
	start  int
	count  int
	subs   map[int]chan Event
	nextID int
	now    func() time.Time
}

// NewBus creates a bus retaining capacity events. A non-positive capacity
// uses DefaultCapacity.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		ring: make([]Event, capacity),
		subs: make(map[int]chan Event),
		now:  time.Now,
	}
}

// Publish stamps ev with an id and time when missing, stores it, and
// delivers it to every subscriber. Subscribers that are not keeping up
// miss the event rather than block the publisher.
func (b *Bus) Publish(ev Event) Event {
	if b == nil {
		return ev
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if ev.Time.IsZero() {
		ev.Time = b.now().UTC()
	}

	capacity := len(b.ring)
	if b.count < capacity {
		b.ring[(b.start+b.count)%capacity] = ev
		b.count++
	} else {
		b.ring[b.start] = ev
		b.start = (b.start + 1) % capacity
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// Emit is shorthand for publishing a new event.
func (b *Bus) Emit(source Source, typ, stepID string, data any) {
	b.Publish(Event{Source: source, Type: typ, StepID: stepID, Data: data})
}

// Snapshot returns the retained events, oldest first.
func (b *Bus) Snapshot() []Event {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Bus) snapshotLocked() []Event {
	out := make([]Event, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.ring[(b.start+i)%len(b.ring)]
	}
	return out
}

// Subscribe registers a listener. It returns the events retained at the
// moment of subscribing and a channel receiving every later event.
// The caller must invoke cancel when done; cancel closes the channel.
func (b *Bus) Subscribe(buffer int) (snapshot []Event, events <-chan Event, cancel func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	snapshot = b.snapshotLocked()
	b.mu.Unlock()

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return snapshot, ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
