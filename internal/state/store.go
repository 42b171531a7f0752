package state

import (
	"sync"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/cpu"
)

// Store holds the latest snapshot. One writer and any number of readers may
// use it concurrently; a reader always gets a whole snapshot from a single
// Write, never a mix of two
type Store struct {
	mu         sync.RWMutex
	snap       cpu.Snapshot
	generation uint64
	updatedAt  time.Time
}

// NewStore returns a store holding the empty snapshot
func NewStore() *Store {
	return &Store{snap: cpu.Snapshot{}}
}

// Read returns a private copy of the current snapshot
func (s *Store) Read() cpu.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Write replaces the current snapshot with a copy of snap
func (s *Store) Write(snap cpu.Snapshot) {
	cp := snap.Clone()
	if cp == nil {
		cp = cpu.Snapshot{}
	}
	now := time.Now()

	s.mu.Lock()
	s.snap, s.updatedAt = cp, now
	s.generation++
	s.mu.Unlock()
}

// Generation returns how many writes have completed and when the last one did
func (s *Store) Generation() (uint64, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation, s.updatedAt
}
