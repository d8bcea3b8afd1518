// Package rehearsal drives a line-by-line run of a scene: the user performs
// one role, the engine voices the other.
package rehearsal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"scenepartner/pkg/model"
)

// State is the lifecycle of a rehearsal session.
type State string

const (
	StateNotStarted State = "not_started"
	StatePlaying    State = "playing"
	StateComplete   State = "complete"
)

// DefaultHintWords is how many leading words a hint reveals.
const DefaultHintWords = 5

var (
	// ErrNotPlaying is returned for operations that need a running session.
	ErrNotPlaying = errors.New("session is not playing")
	// ErrNotYourLine is returned when a hint is requested on a partner line.
	ErrNotYourLine = errors.New("hints are only available on your own lines")
)

// Speaker voices partner lines. The voice adapter satisfies it.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	StopSpeaking()
}

// Session is a single rehearsal run of one scene. The line pointer only ever
// advances or resets to zero.
type Session struct {
	mu        sync.Mutex
	scene     *model.Scene
	role      int // index into scene.Roles for the user's part
	index     int
	state     State
	speaker   Speaker
	hintWords int
}

// NewSession creates a session for the scene with the user performing the
// given role. An empty role selects the scene's first role.
func NewSession(scene *model.Scene, role string, speaker Speaker, hintWords int) (*Session, error) {
	if !scene.Playable() {
		return nil, fmt.Errorf("scene has no lines to rehearse")
	}
	roleIdx := 0
	if role != "" {
		switch role {
		case scene.Roles[0]:
			roleIdx = 0
		case scene.Roles[1]:
			roleIdx = 1
		default:
			return nil, fmt.Errorf("unknown role %q in scene %q", role, scene.ID)
		}
	}
	if hintWords <= 0 {
		hintWords = DefaultHintWords
	}
	return &Session{
		scene:     scene,
		role:      roleIdx,
		state:     StateNotStarted,
		speaker:   speaker,
		hintWords: hintWords,
	}, nil
}

// Scene returns the scene under rehearsal.
func (s *Session) Scene() *model.Scene {
	return s.scene
}

// Role returns the name of the role the user performs.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Roles[s.role]
}

// State returns the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LineIndex returns the current line pointer.
func (s *Session) LineIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// CurrentLine returns the line at the pointer.
func (s *Session) CurrentLine() model.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Lines[s.index]
}

// Start begins (or re-begins) the run from the first line.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
	s.state = StatePlaying
}

// isUserLineLocked reports whether the line belongs to the user's role.
// A line whose speaker matches neither role is treated as a partner line.
func (s *Session) isUserLineLocked(line model.Line) bool {
	return line.Speaker == s.scene.Roles[s.role]
}

// Advance performs the current line and moves the pointer. Partner lines are
// spoken as a side effect before the pointer moves; the user's own lines are
// assumed performed out loud. Advancing past the last line completes the
// session.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return ErrNotPlaying
	}

	line := s.scene.Lines[s.index]
	speak := !s.isUserLineLocked(line) && s.speaker != nil

	if s.index == len(s.scene.Lines)-1 {
		s.state = StateComplete
	} else {
		s.index++
	}
	s.mu.Unlock()

	if speak {
		if err := s.speaker.Speak(ctx, line.Text); err != nil {
			// Speech failure does not rewind the pointer; the run continues
			// silently and the voice layer surfaces the error.
			return err
		}
	}
	return nil
}

// Hint reveals the first words of the current line. It only works on the
// user's own lines while playing.
func (s *Session) Hint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return "", ErrNotPlaying
	}
	line := s.scene.Lines[s.index]
	if !s.isUserLineLocked(line) {
		return "", ErrNotYourLine
	}

	words := strings.Fields(line.Text)
	n := s.hintWords
	if n > len(words) {
		n = len(words)
	}
	hint := strings.Join(words[:n], " ")
	hint = strings.TrimRight(hint, ".,!?;:")
	return hint + "...", nil
}

// SwapRoles hands the user the other part and restarts from the top.
func (s *Session) SwapRoles() {
	s.mu.Lock()
	s.role = 1 - s.role
	s.index = 0
	s.state = StateNotStarted
	speaker := s.speaker
	s.mu.Unlock()

	if speaker != nil {
		speaker.StopSpeaking()
	}
}

// Restart resets the run to the top and cancels any partner line still being
// spoken.
func (s *Session) Restart() {
	s.mu.Lock()
	s.index = 0
	s.state = StateNotStarted
	speaker := s.speaker
	s.mu.Unlock()

	if speaker != nil {
		speaker.StopSpeaking()
	}
}

// Progress reports the pointer and line count for display.
func (s *Session) Progress() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, len(s.scene.Lines)
}
