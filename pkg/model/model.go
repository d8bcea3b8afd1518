package model

import (
	"time"
)

// Line is a single dialogue line within a scene. Lines are immutable and
// owned by their scene.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Scene is a two-character practice scene. Built-in scenes are created once
// at startup and never mutated; custom scenes are created by import and
// deleted explicitly, never edited in place.
type Scene struct {
	ID          string    `json:"id"` // Primary Key
	Title       string    `json:"title"`
	Genre       string    `json:"genre"` // Free-text tag, "Custom" for imports
	Roles       [2]string `json:"roles"` // Exactly two, ordered
	Description string    `json:"description"`
	Lines       []Line    `json:"lines"`
	Beats       []string  `json:"beats,omitempty"` // Emotional beat tags
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Playable reports whether the scene can be rehearsed at all.
func (s *Scene) Playable() bool {
	return s != nil && len(s.Lines) > 0
}

// NoteType classifies an annotation.
type NoteType string

const (
	NoteActor NoteType = "actor"
	NoteCoach NoteType = "coach"
	NoteBeat  NoteType = "beat"
)

// Valid reports whether t is one of the known note types.
func (t NoteType) Valid() bool {
	switch t {
	case NoteActor, NoteCoach, NoteBeat:
		return true
	}
	return false
}

// Annotation is a note attached to one line of one scene. Annotations are
// append-only; they are removed only when their owning scene is deleted.
type Annotation struct {
	ID        int64     `json:"id"`
	SceneID   string    `json:"scene_id"`
	LineIndex int       `json:"line_index"`
	Note      string    `json:"note"`
	Type      NoteType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// VoiceStatus is the adapter-level voice state surfaced to the UI.
type VoiceStatus string

const (
	VoiceIdle      VoiceStatus = "idle"
	VoiceSpeaking  VoiceStatus = "speaking"
	VoiceListening VoiceStatus = "listening"
	VoiceRecording VoiceStatus = "recording"
)

// VoiceSettings holds process-wide speech output preferences. They persist
// across scene changes and restarts.
type VoiceSettings struct {
	// VoiceID selects a synthesis voice. Empty means "let the adapter pick
	// a default by its preference policy".
	VoiceID string  `json:"voice_id"`
	Rate    float64 `json:"rate"`   // Speech rate, 1.0 = normal
	Volume  float64 `json:"volume"` // Output volume, 0.0 - 1.0
}

// DefaultVoiceSettings returns the settings used before the user changes
// anything.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{Rate: 1.0, Volume: 1.0}
}

// Clamp bounds rate and volume to their supported ranges.
func (v *VoiceSettings) Clamp() {
	if v.Rate < 0.5 {
		v.Rate = 0.5
	} else if v.Rate > 2.0 {
		v.Rate = 2.0
	}
	if v.Volume < 0 {
		v.Volume = 0
	} else if v.Volume > 1 {
		v.Volume = 1
	}
}

// Capabilities reports which platform voice features were detected at
// startup. Absence of a capability hides the matching controls; it is not an
// error.
type Capabilities struct {
	Synthesis   bool `json:"synthesis"`
	Recognition bool `json:"recognition"`
	Recording   bool `json:"recording"`
}
