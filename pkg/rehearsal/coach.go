package rehearsal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"scenepartner/pkg/llm"
	"scenepartner/pkg/model"
)

// coachLinesPerBeat maps line indexes onto the scene's beat tags when the
// scene doesn't carry per-line beats.
const coachLinesPerBeat = 10

// NoteCache persists generated coaching notes per (scene, line).
type NoteCache interface {
	GetCoachNote(ctx context.Context, sceneID string, lineIndex int) (string, bool)
	SaveCoachNote(ctx context.Context, sceneID string, lineIndex int, note string) error
}

// Coach generates short performance notes for upcoming lines.
type Coach struct {
	provider llm.Provider
	cache    NoteCache
	log      *slog.Logger
}

// NewCoach creates a coach. provider may be nil, in which case only cached
// notes are served.
func NewCoach(provider llm.Provider, cache NoteCache, log *slog.Logger) *Coach {
	if log == nil {
		log = slog.Default()
	}
	return &Coach{provider: provider, cache: cache, log: log}
}

// Note returns a coaching note for the line at lineIndex. Notes are cached
// per scene line; a cached note never triggers another generation.
func (c *Coach) Note(ctx context.Context, scene *model.Scene, lineIndex int) (string, error) {
	if scene == nil || lineIndex < 0 || lineIndex >= len(scene.Lines) {
		return "", fmt.Errorf("line index %d out of range", lineIndex)
	}

	if c.cache != nil {
		if note, ok := c.cache.GetCoachNote(ctx, scene.ID, lineIndex); ok {
			return note, nil
		}
	}

	if c.provider == nil {
		return "", fmt.Errorf("no coaching provider configured")
	}

	prompt := buildCoachPrompt(scene, lineIndex)
	note, err := c.provider.GenerateText(ctx, "coach", prompt)
	if err != nil {
		return "", fmt.Errorf("coach note generation failed: %w", err)
	}
	note = strings.TrimSpace(note)

	if c.cache != nil {
		if err := c.cache.SaveCoachNote(ctx, scene.ID, lineIndex, note); err != nil {
			c.log.Warn("coach: failed to cache note", "scene", scene.ID, "line", lineIndex, "error", err)
		}
	}
	c.log.Info("coach: note generated", "scene", scene.ID, "line", lineIndex)
	return note, nil
}

func buildCoachPrompt(scene *model.Scene, lineIndex int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scene: %s (%s)\n", scene.Title, scene.Genre)
	if beat := beatFor(scene, lineIndex); beat != "" {
		fmt.Fprintf(&b, "Emotional beat: %s\n", beat)
	}
	if lineIndex > 0 {
		prev := scene.Lines[lineIndex-1]
		fmt.Fprintf(&b, "Previous line (%s): %s\n", prev.Speaker, prev.Text)
	}
	cur := scene.Lines[lineIndex]
	fmt.Fprintf(&b, "The actor's next line (%s): %s\n", cur.Speaker, cur.Text)
	b.WriteString("Give one coaching note for delivering the next line. Max 30 words.")
	return b.String()
}

// beatFor picks the beat tag covering the line, stretching the scene's beats
// evenly across its lines.
func beatFor(scene *model.Scene, lineIndex int) string {
	if len(scene.Beats) == 0 {
		return ""
	}
	idx := lineIndex / coachLinesPerBeat
	if idx >= len(scene.Beats) {
		idx = len(scene.Beats) - 1
	}
	return scene.Beats[idx]
}
