package script

import (
	"fmt"
	"strings"

	"scenepartner/pkg/model"
)

// wordsPerMinute is the average speaking rate used for time estimates.
const wordsPerMinute = 150

// SearchLines returns the indices of lines whose speaker or text contains
// the query, case-insensitively, in scene order.
func SearchLines(lines []model.Line, query string) []int {
	q := strings.ToLower(query)
	var matches []int
	for i, l := range lines {
		if strings.Contains(strings.ToLower(l.Text), q) ||
			strings.Contains(strings.ToLower(l.Speaker), q) {
			matches = append(matches, i)
		}
	}
	return matches
}

// EstimateReadingTime returns the rough scene duration in whole minutes,
// rounded up.
func EstimateReadingTime(lines []model.Line) int {
	total := 0
	for _, l := range lines {
		total += len(strings.Fields(l.Text))
	}
	if total == 0 {
		return 0
	}
	return (total + wordsPerMinute - 1) / wordsPerMinute
}

// SplitByBeats partitions lines into consecutive chunks of linesPerBeat
// lines each; the last chunk may be shorter.
func SplitByBeats(lines []model.Line, linesPerBeat int) [][]model.Line {
	if linesPerBeat <= 0 {
		linesPerBeat = 10
	}
	var beats [][]model.Line
	for i := 0; i < len(lines); i += linesPerBeat {
		end := i + linesPerBeat
		if end > len(lines) {
			end = len(lines)
		}
		beats = append(beats, lines[i:end])
	}
	return beats
}

// ExportAsText renders a scene as a human-readable transcript: title, genre,
// roles, description, every line in order, then the beat list. The output is
// meant for humans, not for re-parsing.
func ExportAsText(scene *model.Scene) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", scene.Title)
	fmt.Fprintf(&b, "Genre: %s\n", scene.Genre)
	fmt.Fprintf(&b, "Characters: %s, %s\n\n", scene.Roles[0], scene.Roles[1])

	if scene.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", scene.Description)
	}

	b.WriteString("---\n\n")

	for _, l := range scene.Lines {
		fmt.Fprintf(&b, "%s: %s\n\n", l.Speaker, l.Text)
	}

	if len(scene.Beats) > 0 {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "Beats: %s\n", strings.Join(scene.Beats, ", "))
	}

	return b.String()
}

// ExportFilename returns the download name for an exported scene.
func ExportFilename(scene *model.Scene) string {
	return strings.Join(strings.Fields(scene.Title), "_") + ".txt"
}
