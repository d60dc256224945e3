// Package store holds the client-side state snapshot: the current identity
// and the current list of feedback items. All mutation goes through the
// defined actions; each action is a single atomic transition, and every
// transition notifies subscribers with a copy of the new snapshot.
package store

import (
	"sync"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
)

// Snapshot is the observable state at one point in time.
type Snapshot struct {
	Identity *identity.Identity
	Items    []feedback.Item
}

// Store is an observable state container. The zero value is not usable;
// call New.
type Store struct {
	mu     sync.Mutex
	snap   Snapshot
	nextID int
	subs   map[int]func(Snapshot)
}

// New creates an empty store.
func New() *Store {
	return &Store{subs: make(map[int]func(Snapshot))}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap)
}

// Subscribe registers an observer called after every transition. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// SetIdentity replaces the current identity.
func (s *Store) SetIdentity(ident *identity.Identity) {
	s.transition(func(snap *Snapshot) {
		snap.Identity = ident
	})
}

// SetItems replaces the item list. Ordering is kept as given.
func (s *Store) SetItems(items []feedback.Item) {
	s.transition(func(snap *Snapshot) {
		snap.Items = append([]feedback.Item(nil), items...)
	})
}

// AddItem prepends a new item. Duplicate ids are not deduplicated here;
// the realtime bridge filters repeated creation events.
func (s *Store) AddItem(item feedback.Item) {
	s.transition(func(snap *Snapshot) {
		items := make([]feedback.Item, 0, len(snap.Items)+1)
		items = append(items, item)
		snap.Items = append(items, snap.Items...)
	})
}

// UpdateItem merges a patch into the item with the given id. A missing id
// leaves the list untouched.
func (s *Store) UpdateItem(id string, patch feedback.Patch) {
	s.transition(func(snap *Snapshot) {
		for i := range snap.Items {
			if snap.Items[i].ID == id {
				snap.Items[i] = patch.Apply(snap.Items[i])
				return
			}
		}
	})
}

// Clear resets the store to its initial empty state.
func (s *Store) Clear() {
	s.transition(func(snap *Snapshot) {
		*snap = Snapshot{}
	})
}

// transition applies one atomic mutation and notifies subscribers. The
// notification runs outside the lock so observers may read the store.
func (s *Store) transition(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	notified := copySnapshot(s.snap)
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(notified)
	}
}

func copySnapshot(snap Snapshot) Snapshot {
	return Snapshot{
		Identity: snap.Identity,
		Items:    append([]feedback.Item(nil), snap.Items...),
	}
}
