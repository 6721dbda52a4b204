package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := NewState()
	next, err := Reduce(s, ToggleNote(NoteID{Step: 1, Note: 1}))
	require.NoError(t, err)

	on, _ := s.Notes.IsActiveAt(1, 1)
	assert.False(t, on)
	on, _ = next.Notes.IsActiveAt(1, 1)
	assert.True(t, on)
}

func TestReduceActions(t *testing.T) {
	s := NewState()
	require.True(t, s.IsPaused)

	s, err := Reduce(s, PlayPause())
	require.NoError(t, err)
	assert.False(t, s.IsPaused)

	s, err = Reduce(s, UpdatePlaybackTime(250))
	require.NoError(t, err)
	assert.Equal(t, 250.0, s.PlaybackTime)

	s, err = Reduce(s, SetClientLoaded(true))
	require.NoError(t, err)
	assert.True(t, s.ClientLoaded)

	_, err = Reduce(s, Action{Type: "BOGUS"})
	assert.Error(t, err)
}

func TestStoreNotifiesInOrder(t *testing.T) {
	st := NewStore()
	var calls []string

	st.Subscribe(func(s State, a Action) { calls = append(calls, "first:"+string(a.Type)) })
	st.Subscribe(func(s State, a Action) { calls = append(calls, "second:"+string(a.Type)) })

	require.NoError(t, st.Dispatch(PlayPause()))
	assert.Equal(t, []string{"first:PLAY_PAUSE", "second:PLAY_PAUSE"}, calls)
}

func TestStoreRejectedDispatch(t *testing.T) {
	st := NewStore()
	notified := false
	st.Subscribe(func(State, Action) { notified = true })

	err := st.Dispatch(ToggleNote(NoteID{Step: 99, Note: 0}))
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.False(t, notified)
	assert.Equal(t, NewState(), st.State())
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	st := NewStore()
	count := 0
	unsub := st.Subscribe(func(State, Action) { count++ })
	other := 0
	st.Subscribe(func(State, Action) { other++ })

	require.NoError(t, st.Dispatch(PlayPause()))
	unsub()
	unsub()
	require.NoError(t, st.Dispatch(PlayPause()))

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, other)
}

func TestStateSnapshotIsCopy(t *testing.T) {
	st := NewStore()
	snap := st.State()
	require.NoError(t, snap.Notes.Toggle(0, 0))

	on, _ := st.State().Notes.IsActiveAt(0, 0)
	assert.False(t, on)
}
