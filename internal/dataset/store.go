package dataset

import (
	"sync"

	"github.com/go-gota/gota/dataframe"
)

// Store holds the current snapshot. Readers always see one consistent
// snapshot; Swap replaces the whole pointer so an in-flight request keeps
// the frame it started with.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewStore(snap *Snapshot) *Store {
	return &Store{snap: snap}
}

func (st *Store) Current() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap
}

func (st *Store) Swap(snap *Snapshot) {
	st.mu.Lock()
	st.snap = snap
	st.mu.Unlock()
}

// Frame and Version make Store a domain.Dataset.

func (st *Store) Frame() dataframe.DataFrame { return st.Current().Frame() }

func (st *Store) Version() string { return st.Current().Version() }
