package connection

import "sync/atomic"

// State is the lifecycle state of a connection.
type State int32

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	}
	return "closed"
}

// stateVar is read lock-free so callbacks can query it while a transition holds the mutex.
type stateVar struct {
	v atomic.Int32
}

func (s *stateVar) load() State {
	return State(s.v.Load())
}

func (s *stateVar) store(st State) {
	s.v.Store(int32(st))
}
