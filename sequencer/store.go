package sequencer

import (
	"sync"

	"mandachord/debug"
)

// Subscriber is notified after every successful transition
type Subscriber func(s State, a Action)

// Store holds the current State and fans transitions out to subscribers
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]Subscriber
	order  []int
	nextID int
}

// NewStore creates a store holding the initial state
func NewStore() *Store {
	return &Store{
		state: NewState(),
		subs:  make(map[int]Subscriber),
	}
}

// State returns a snapshot. Mutating it does not affect the store.
func (st *Store) State() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state
}

// Dispatch reduces the action into the current state and notifies subscribers.
// On error the state is left untouched and nobody is notified.
func (st *Store) Dispatch(a Action) error {
	st.mu.Lock()
	next, err := Reduce(st.state, a)
	if err != nil {
		st.mu.Unlock()
		debug.Log("store", "dispatch %s rejected: %v", a.Type, err)
		return err
	}
	st.state = next
	subs := st.subscribers()
	st.mu.Unlock()

	for _, fn := range subs {
		fn(next, a)
	}
	return nil
}

// Subscribe registers fn and returns a func that removes it.
// Calling the returned func more than once is harmless.
func (st *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.subs[id] = fn
	st.order = append(st.order, id)
	st.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			defer st.mu.Unlock()
			delete(st.subs, id)
			for i, o := range st.order {
				if o == id {
					st.order = append(st.order[:i], st.order[i+1:]...)
					break
				}
			}
		})
	}
}

// subscribers returns the live subscribers in subscription order (caller holds mu)
func (st *Store) subscribers() []Subscriber {
	out := make([]Subscriber, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.subs[id])
	}
	return out
}
