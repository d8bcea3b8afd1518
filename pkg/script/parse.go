// Package script turns raw pasted or uploaded text into structured dialogue
// and provides the pure line-level tooling (search, export, beat splitting)
// used by the rehearsal session.
package script

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"scenepartner/pkg/model"
)

// Fallback role names used when a script carries no recognizable speaker
// prefixes.
const (
	FallbackRoleA = "Character A"
	FallbackRoleB = "Character B"
)

// speakerPattern matches "SPEAKER: dialogue" style lines. The separator may
// be one or more of ':', '-' or '.', and the speaker token is a short run of
// letters, digits, underscores and spaces.
var speakerPattern = regexp.MustCompile(`(?i)^([A-Z][A-Z0-9_\s]{1,30})[:\-.]+\s*(.+)$`)

// Parse converts script text into dialogue lines. It first tries the
// "SPEAKER: line" format; if fewer than three lines match, it falls back to
// treating every non-empty line as dialogue with speakers assigned
// alternately to two synthetic roles.
//
// A line that matches the speaker pattern but has no dialogue text after the
// separator is dropped, not emitted.
func Parse(text string) []model.Line {
	var raw []string
	for _, l := range regexp.MustCompile(`\n+`).Split(text, -1) {
		l = strings.TrimSpace(l)
		if l != "" {
			raw = append(raw, l)
		}
	}

	var parsed []model.Line
	for _, l := range raw {
		m := speakerPattern.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		dialogue := strings.TrimSpace(m[2])
		if dialogue == "" {
			continue
		}
		parsed = append(parsed, model.Line{
			Speaker: strings.TrimSpace(m[1]),
			Text:    dialogue,
		})
	}

	// More than two prefixed lines means the prefix format is the real one.
	if len(parsed) > 2 {
		return parsed
	}

	// Fallback: alternate two synthetic roles by line parity.
	var fallback []model.Line
	for i, l := range raw {
		speaker := FallbackRoleA
		if i%2 == 1 {
			speaker = FallbackRoleB
		}
		fallback = append(fallback, model.Line{Speaker: speaker, Text: l})
	}
	if len(fallback) > 0 {
		return fallback
	}
	return parsed
}

// ExtractCharacters returns the distinct speaker names in first-occurrence
// order.
func ExtractCharacters(lines []model.Line) []string {
	seen := make(map[string]bool)
	var speakers []string
	for _, l := range lines {
		if !seen[l.Speaker] {
			seen[l.Speaker] = true
			speakers = append(speakers, l.Speaker)
		}
	}
	return speakers
}

// SceneFromParsed builds a custom scene from parsed lines. The id is freshly
// generated on every call, so importing the same script twice never collides
// with an existing scene.
func SceneFromParsed(lines []model.Line, title, description string) *model.Scene {
	if title == "" {
		title = "Custom Scene"
	}
	if description == "" {
		description = "Imported script"
	}

	speakers := ExtractCharacters(lines)
	roles := [2]string{FallbackRoleA, FallbackRoleB}
	if len(speakers) > 0 {
		roles[0] = speakers[0]
	}
	if len(speakers) > 1 {
		roles[1] = speakers[1]
	}

	return &model.Scene{
		ID:          "custom-" + uuid.NewString(),
		Title:       title,
		Genre:       "Custom",
		Roles:       roles,
		Description: description,
		Lines:       append([]model.Line(nil), lines...),
		Beats:       []string{},
		CreatedAt:   time.Now(),
	}
}
