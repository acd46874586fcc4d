package cart

import "sync"

// Store holds one cart and serializes mutations so a Snapshot never
// observes a partially applied action.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore returns a store holding an empty cart.
func NewStore() *Store {
	return &Store{state: Empty()}
}

// NewStoreFrom returns a store seeded with s.
func NewStoreFrom(s State) *Store {
	return &Store{state: s.Clone()}
}

// Dispatch applies a and returns a snapshot of the resulting state.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Apply(st.state, a)
	return st.state.Clone()
}

// DispatchIf applies a only while the state is still at version. It
// reports whether a was applied.
func (st *Store) DispatchIf(version uint64, a Action) (State, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.state.Version != version {
		return st.state.Clone(), false
	}
	st.state = Apply(st.state, a)
	return st.state.Clone(), true
}

// DispatchChecked runs check against the current state and applies a only
// if check returns nil. check may be nil. Both happen under one lock, so
// the reported change flag describes exactly this dispatch.
func (st *Store) DispatchChecked(a Action, check func(State) error) (State, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if check != nil {
		if err := check(st.state); err != nil {
			return st.state.Clone(), false, err
		}
	}
	before := st.state.Version
	st.state = Apply(st.state, a)
	return st.state.Clone(), st.state.Version != before, nil
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.Clone()
}

func (st *Store) AddItem(item LineItem) State { return st.Dispatch(AddItem(item)) }

func (st *Store) RemoveItem(id string) State { return st.Dispatch(RemoveItem(id)) }

func (st *Store) UpdateQuantity(id string, quantity int) State {
	return st.Dispatch(UpdateQuantity(id, quantity))
}

func (st *Store) Clear() State { return st.Dispatch(Clear()) }

func (st *Store) Reset() State { return st.Dispatch(Reset()) }
