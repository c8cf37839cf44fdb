package window

import "github.com/Carmen-Shannon/oxy-cube/common"

// EventType identifies the kind of a window Event.
type EventType int

const (
	// EventQuit is queued when the window is closed or Escape is pressed.
	EventQuit EventType = iota
	// EventKeyUp is queued when a key other than Escape is released.
	EventKeyUp
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventKeyUp:
		return "key-up"
	default:
		return "unknown"
	}
}

// Event is one discrete input event. Key is only set for EventKeyUp and holds a
// key code from the common package (common.KeyW etc.).
type Event struct {
	Type EventType
	Key  int
}

// eventQueue buffers events between polls. Platform callbacks append to it and
// PollEvents drains it.
type eventQueue struct {
	events []Event
	quit   bool
}

func (q *eventQueue) push(e Event) {
	if e.Type == EventQuit {
		if q.quit {
			return
		}
		q.quit = true
	}
	q.events = append(q.events, e)
}

// key translates a platform key transition into queued events.
func (q *eventQueue) key(key int, pressed, released bool) {
	switch {
	case key == common.KeyEsc && pressed:
		q.push(Event{Type: EventQuit})
	case key != common.KeyEsc && released:
		q.push(Event{Type: EventKeyUp, Key: key})
	}
}

// drain returns the queued events in arrival order and empties the queue.
// A quit is reported once, in the poll it occurred in.
func (q *eventQueue) drain() []Event {
	out := q.events
	q.events = nil
	return out
}
