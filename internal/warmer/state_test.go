package warmer

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstanceID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewInstanceID(now, rand.New(rand.NewSource(1)))

	assert.Regexp(t, regexp.MustCompile(`^1700000000123-\d{4}$`), id)
}

func TestNewState(t *testing.T) {
	s := NewState()

	assert.NotEmpty(t, s.InstanceID())
	assert.False(t, s.Warm())

	_, ok := s.LastAccess()
	assert.False(t, ok)
}

func TestState_MarkWarm(t *testing.T) {
	s := NewState()
	s.MarkWarm()

	assert.True(t, s.Warm())

	_, ok := s.LastAccess()
	assert.False(t, ok, "pings do not update the last access")
}

func TestState_MarkAccess(t *testing.T) {
	s := NewState()
	t0 := time.UnixMilli(1700000000000)

	s.MarkAccess(t0)
	assert.True(t, s.Warm())

	last, ok := s.LastAccess()
	require.True(t, ok)
	assert.Equal(t, t0, last)

	s.MarkAccess(t0.Add(-time.Second))
	last, _ = s.LastAccess()
	assert.Equal(t, t0, last, "last access never moves backwards")
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()
	t0 := time.UnixMilli(1700000000000)

	snap := s.Snapshot(t0)
	assert.False(t, snap.Warm)
	assert.Nil(t, snap.LastAccessed)
	assert.Nil(t, snap.LastAccessedSeconds)

	s.MarkAccess(t0)
	snap = s.Snapshot(t0.Add(2340 * time.Millisecond))

	assert.True(t, snap.Warm)
	require.NotNil(t, snap.LastAccessed)
	require.NotNil(t, snap.LastAccessedSeconds)
	assert.Equal(t, int64(1700000000000), *snap.LastAccessed)
	assert.Equal(t, 2.3, *snap.LastAccessedSeconds)
}
