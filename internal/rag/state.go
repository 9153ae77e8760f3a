// Package rag indexes text documents into a vector store and answers
// questions against them with retrieval-augmented generation.
package rag

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Status is the index lifecycle state. Queries are only served in
// StatusReady; a failed rebuild leaves no partial index authoritative.
type Status int

const (
	StatusUninitialized Status = iota
	StatusIndexing
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusIndexing:
		return "indexing"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ErrNotReady is returned when a query arrives before indexing completed.
var ErrNotReady = errors.New("index not ready")

// ErrIndexing is returned when a rebuild is requested while one is running.
var ErrIndexing = errors.New("indexing already in progress")

// State tracks the index lifecycle. It also serializes rebuilds: a second
// rebuild while one is running is rejected rather than queued.
type State struct {
	mu          sync.Mutex
	status      Status
	chunkCount  int
	lastErr     error
	completedAt time.Time
}

func NewState() *State {
	return &State{status: StatusUninitialized}
}

// BeginIndexing transitions to StatusIndexing. It fails with ErrIndexing if
// a rebuild is already running.
func (s *State) BeginIndexing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIndexing {
		return ErrIndexing
	}
	s.status = StatusIndexing
	s.lastErr = nil
	return nil
}

// Complete marks the index ready with the given chunk count.
func (s *State) Complete(chunkCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusReady
	s.chunkCount = chunkCount
	s.completedAt = time.Now()
}

// Fail marks the rebuild failed. The store is treated as unusable until a
// later rebuild succeeds.
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.chunkCount = 0
	s.lastErr = err
}

// Ready reports whether queries may be served.
func (s *State) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusReady
}

// Snapshot is a point-in-time view of the index state.
type Snapshot struct {
	Status      Status
	ChunkCount  int
	LastError   string
	CompletedAt time.Time
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Status:      s.status,
		ChunkCount:  s.chunkCount,
		CompletedAt: s.completedAt,
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}
