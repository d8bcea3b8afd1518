package rehearsal

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenepartner/pkg/model"
)

type fakeSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	stopped int
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSpeaker) StopSpeaking() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}

func (f *fakeSpeaker) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

func testScene() *model.Scene {
	return &model.Scene{
		ID:    "test-01",
		Title: "Test Scene",
		Genre: "Drama",
		Roles: [2]string{"ALEX", "JORDAN"},
		Lines: []model.Line{
			{Speaker: "ALEX", Text: "Hey, did you finish the report?"},
			{Speaker: "JORDAN", Text: "Almost. I need one more hour."},
			{Speaker: "ALEX", Text: "We don't have an hour."},
		},
		Beats: []string{"Tense"},
	}
}

func TestAdvanceToCompletion(t *testing.T) {
	sp := &fakeSpeaker{}
	s, err := NewSession(testScene(), "ALEX", sp, 0)
	require.NoError(t, err)

	assert.Equal(t, StateNotStarted, s.State())
	s.Start()
	assert.Equal(t, StatePlaying, s.State())

	// Three lines, three advances: the run completes exactly at the end.
	require.NoError(t, s.Advance(context.Background()))
	assert.Equal(t, 1, s.LineIndex())
	require.NoError(t, s.Advance(context.Background()))
	assert.Equal(t, 2, s.LineIndex())
	require.NoError(t, s.Advance(context.Background()))

	assert.Equal(t, StateComplete, s.State())
	assert.Equal(t, 2, s.LineIndex(), "pointer stays on the last line")

	// Only the partner's line was spoken.
	assert.Equal(t, []string{"Almost. I need one more hour."}, sp.lines())

	// Advancing a complete session is rejected.
	assert.ErrorIs(t, s.Advance(context.Background()), ErrNotPlaying)
}

func TestAdvanceBeforeStart(t *testing.T) {
	s, err := NewSession(testScene(), "", nil, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Advance(context.Background()), ErrNotPlaying)
}

func TestUnknownSpeakerTreatedAsPartnerLine(t *testing.T) {
	scene := testScene()
	scene.Lines = append(scene.Lines, model.Line{Speaker: "STAGE DIRECTION", Text: "The lights dim."})

	sp := &fakeSpeaker{}
	s, err := NewSession(scene, "ALEX", sp, 0)
	require.NoError(t, err)
	s.Start()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Advance(context.Background()))
	}

	// The unattributed line is voiced by the engine like a partner line.
	assert.Contains(t, sp.lines(), "The lights dim.")
	assert.Equal(t, StateComplete, s.State())
}

func TestHint(t *testing.T) {
	scene := &model.Scene{
		ID:    "hint-01",
		Roles: [2]string{"A", "B"},
		Lines: []model.Line{
			{Speaker: "A", Text: "Hello there, friend."},
			{Speaker: "B", Text: "Good to see you."},
			{Speaker: "A", Text: "I have been meaning to ask you something important."},
		},
	}
	s, err := NewSession(scene, "A", nil, 0)
	require.NoError(t, err)

	_, err = s.Hint()
	assert.ErrorIs(t, err, ErrNotPlaying)

	s.Start()

	// Short lines reveal every word.
	hint, err := s.Hint()
	require.NoError(t, err)
	assert.Equal(t, "Hello there, friend...", hint)

	// Partner lines never get hints.
	require.NoError(t, s.Advance(context.Background()))
	_, err = s.Hint()
	assert.ErrorIs(t, err, ErrNotYourLine)

	// Longer lines reveal the first five words.
	require.NoError(t, s.Advance(context.Background()))
	hint, err = s.Hint()
	require.NoError(t, err)
	assert.Equal(t, "I have been meaning to...", hint)
}

func TestSwapRolesResets(t *testing.T) {
	sp := &fakeSpeaker{}
	s, err := NewSession(testScene(), "ALEX", sp, 0)
	require.NoError(t, err)
	s.Start()
	require.NoError(t, s.Advance(context.Background()))
	require.Equal(t, 1, s.LineIndex())

	s.SwapRoles()

	assert.Equal(t, "JORDAN", s.Role())
	assert.Equal(t, 0, s.LineIndex())
	assert.Equal(t, StateNotStarted, s.State())
	assert.Equal(t, 1, sp.stopped, "in-flight speech is cancelled")
}

func TestRestartCancelsSpeech(t *testing.T) {
	sp := &fakeSpeaker{}
	s, err := NewSession(testScene(), "ALEX", sp, 0)
	require.NoError(t, err)
	s.Start()
	require.NoError(t, s.Advance(context.Background()))

	s.Restart()

	assert.Equal(t, 0, s.LineIndex())
	assert.Equal(t, StateNotStarted, s.State())
	assert.Equal(t, "ALEX", s.Role(), "restart keeps the role")
	assert.Equal(t, 1, sp.stopped)
}

func TestNewSessionValidation(t *testing.T) {
	_, err := NewSession(&model.Scene{ID: "empty"}, "", nil, 0)
	assert.Error(t, err)

	_, err = NewSession(testScene(), "NOBODY", nil, 0)
	assert.Error(t, err)

	// Empty role defaults to the first role.
	s, err := NewSession(testScene(), "", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "ALEX", s.Role())
}
