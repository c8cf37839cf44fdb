package window

import (
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

func TestEventQueueKeys(t *testing.T) {
	var q eventQueue
	q.key(common.KeyW, true, false)  // press: ignored
	q.key(common.KeyW, false, true)  // release
	q.key(common.KeyQ, false, false) // repeat: ignored
	q.key(common.KeyQ, false, true)

	want := []Event{{Type: EventKeyUp, Key: common.KeyW}, {Type: EventKeyUp, Key: common.KeyQ}}
	if got := q.drain(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if got := q.drain(); len(got) != 0 {
		t.Errorf("second drain = %v, want empty", got)
	}
}

func TestEventQueueEscape(t *testing.T) {
	var q eventQueue
	q.key(common.KeyEsc, true, false)
	q.key(common.KeyEsc, false, true)

	want := []Event{{Type: EventQuit}}
	if got := q.drain(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestEventQueueQuitOnce(t *testing.T) {
	var q eventQueue
	q.push(Event{Type: EventQuit})
	q.key(common.KeyA, false, true)
	q.push(Event{Type: EventQuit})

	want := []Event{{Type: EventQuit}, {Type: EventKeyUp, Key: common.KeyA}}
	if got := q.drain(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	q.push(Event{Type: EventQuit})
	if got := q.drain(); len(got) != 0 {
		t.Errorf("quit reported twice: %v", got)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventQuit.String() != "quit" || EventKeyUp.String() != "key-up" || EventType(9).String() != "unknown" {
		t.Error("unexpected event type names")
	}
}
