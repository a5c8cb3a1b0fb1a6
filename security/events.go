package security

import (
	"sync"

	"github.com/rs/xid"
)

// EventKind enumerates the mutations of an ACL.
type EventKind uint8

const (
	// EventRuleAdded is emitted when a rule is added or replaced.
	EventRuleAdded EventKind = iota + 1

	// EventOwnerChanged is emitted when the owner changes.
	EventOwnerChanged

	// EventOrderChanged is emitted when the evaluation order changes.
	EventOrderChanged
)

// Event describes one mutation of an ACL. Subsystems like cache invalidation
// subscribe to them instead of being wired into the rule engine.
type Event struct {
	ID    string
	Kind  EventKind
	Rule  AccessRule
	Owner *User
	Order Order
}

// Observer is the interface to implement to watch ACL mutations.
type Observer interface {
	NotifyCallback(event Event)
}

// watcher notifies observers of ACL mutations, synchronously and one after
// the other.
type watcher struct {
	sync.RWMutex

	observers map[Observer]struct{}
}

func newWatcher() *watcher {
	return &watcher{
		observers: make(map[Observer]struct{}),
	}
}

func (w *watcher) add(observer Observer) {
	w.Lock()
	w.observers[observer] = struct{}{}
	w.Unlock()
}

func (w *watcher) remove(observer Observer) {
	w.Lock()
	delete(w.observers, observer)
	w.Unlock()
}

func (w *watcher) notify(event Event) {
	event.ID = xid.New().String()

	w.RLock()
	defer w.RUnlock()

	for observer := range w.observers {
		observer.NotifyCallback(event)
	}
}
