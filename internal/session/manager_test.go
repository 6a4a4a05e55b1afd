package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/filter"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(time.Hour, 0)
	t.Cleanup(m.Stop)
	return m
}

func TestManagerDoPersistsState(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	id := NewID()

	err := m.Do(id, func(s State) (State, error) {
		assert.Equal(t, StatusEmpty, s.Status)
		return s.Activate(filter.Resolution{Campuses: []campus.Key{campus.UCB}}, filter.Seed{}), nil
	})
	require.NoError(t, err)

	state, ok := m.Peek(id)
	require.True(t, ok)
	assert.Equal(t, StatusActive, state.Status)
	assert.Equal(t, []campus.Key{campus.UCB}, state.Campuses)
	assert.Equal(t, 1, state.Turn)
}

func TestManagerDoKeepsStateOnError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	id := NewID()

	require.NoError(t, m.Do(id, func(s State) (State, error) {
		return s.Activate(filter.Resolution{Campuses: []campus.Key{campus.UCD}}, filter.Seed{}), nil
	}))

	boom := errors.New("boom")
	err := m.Do(id, func(s State) (State, error) {
		return s.Terminate(), boom
	})
	assert.ErrorIs(t, err, boom)

	state, ok := m.Peek(id)
	require.True(t, ok)
	assert.Equal(t, StatusActive, state.Status)
	assert.Equal(t, 1, state.Turn)
}

func TestManagerPeekUnknown(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	_, ok := m.Peek("nope")
	assert.False(t, ok)
	// Peek never creates sessions.
	assert.Equal(t, 0, m.Len())
}

func TestManagerDeleteAndLen(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	require.NoError(t, m.Do("a", func(s State) (State, error) { return s, nil }))
	require.NoError(t, m.Do("b", func(s State) (State, error) { return s, nil }))
	assert.Equal(t, 2, m.Len())

	m.Delete("a")
	assert.Equal(t, 1, m.Len())
	_, ok := m.Peek("a")
	assert.False(t, ok)
}

func TestManagerEvictsIdleAndTerminated(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Millisecond, 0)
	t.Cleanup(m.Stop)

	require.NoError(t, m.Do("idle", func(s State) (State, error) { return s, nil }))
	require.NoError(t, m.Do("ended", func(s State) (State, error) { return s.Terminate(), nil }))
	time.Sleep(5 * time.Millisecond)
	m.evictIdle()

	assert.Equal(t, 0, m.Len())
}

func TestManagerDoDuringSweep(t *testing.T) {
	t.Parallel()

	// Fast sweep with a tiny TTL keeps evictIdle running against live
	// entries. Meaningful under -race: Do writes lastSeen and state
	// while the janitor inspects them.
	m := NewManager(time.Millisecond, 100*time.Microsecond)
	t.Cleanup(m.Stop)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("s%d", g)
			for range 200 {
				assert.NoError(t, m.Do(id, func(s State) (State, error) {
					return s.Activate(filter.Resolution{Campuses: []campus.Key{campus.UCB}}, filter.Seed{}), nil
				}))
			}
		}()
	}
	wg.Wait()

	// Survivors, if any, must still be readable.
	for g := range 8 {
		if state, ok := m.Peek(fmt.Sprintf("s%d", g)); ok {
			assert.Equal(t, StatusActive, state.Status)
		}
	}
}

func TestNewID(t *testing.T) {
	t.Parallel()

	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
