package warmer

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// State is the process-lifetime record of whether this execution environment
// has been used before and when it last served real traffic.
//
// A State is owned by the hosting process and shared across invocations. It
// is not safe for concurrent use: the Lambda runtime delivers at most one
// event at a time to an execution environment, and State relies on that.
type State struct {
	id         string
	warm       bool
	lastAccess time.Time
}

// NewState returns the state for a freshly started process.
func NewState() *State {
	return newState(time.Now(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newState(now time.Time, rnd *rand.Rand) *State {
	return &State{
		id: NewInstanceID(now, rnd),
	}
}

// NewInstanceID builds an instance identifier from the process start time in
// milliseconds and a random 4-digit suffix.
func NewInstanceID(now time.Time, rnd *rand.Rand) string {
	return fmt.Sprintf("%d-%04d", now.UnixMilli(), rnd.Intn(10000))
}

// InstanceID returns the identifier of this execution environment.
func (s *State) InstanceID() string {
	return s.id
}

// Warm reports whether any invocation has been handled by this process.
func (s *State) Warm() bool {
	return s.warm
}

// MarkWarm records that a ping was handled.
func (s *State) MarkWarm() {
	s.warm = true
}

// MarkAccess records that real traffic was handled at now.
func (s *State) MarkAccess(now time.Time) {
	s.warm = true
	if now.After(s.lastAccess) {
		s.lastAccess = now
	}
}

// LastAccess returns the time of the last real invocation, if any.
func (s *State) LastAccess() (time.Time, bool) {
	return s.lastAccess, !s.lastAccess.IsZero()
}

// Snapshot describes the state as seen at now.
type Snapshot struct {
	Warm bool

	// LastAccessed is the last real access in Unix milliseconds, nil if never.
	LastAccessed *int64

	// LastAccessedSeconds is the elapsed time since LastAccessed rounded to
	// one decimal place, nil if never.
	LastAccessedSeconds *float64
}

// Snapshot returns the state as seen at now.
func (s *State) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{Warm: s.warm}

	if last, ok := s.LastAccess(); ok {
		ms := last.UnixMilli()
		secs := math.Round(now.Sub(last).Seconds()*10) / 10
		snap.LastAccessed = &ms
		snap.LastAccessedSeconds = &secs
	}

	return snap
}
