package tts

import (
	"regexp"
	"strings"
)

// Speaker labels may contain spaces and honorific periods, e.g.
// "Dr. Alex Chen:" or "SUSPECT HALE:".
var speakerLabelRegex = regexp.MustCompile(`(?m)^[A-Za-z][A-Za-z0-9 ._-]{0,30}(\s*\([^)]+\))?:\s*`)

// StripSpeakerLabels removes leading speaker labels from dialogue so the
// synthesized audio does not read out character names.
func StripSpeakerLabels(script string) string {
	return speakerLabelRegex.ReplaceAllString(script, "")
}

// SelectVoice picks a voice by preference. An exact ID match wins, then a
// case-insensitive substring match on ID or name, then the first available
// voice. Returns "" only when no voices exist at all.
func SelectVoice(voices []Voice, preferred string) string {
	if len(voices) == 0 {
		return ""
	}
	if preferred != "" {
		for _, v := range voices {
			if v.ID == preferred {
				return v.ID
			}
		}
		needle := strings.ToLower(preferred)
		for _, v := range voices {
			if strings.Contains(strings.ToLower(v.ID), needle) ||
				strings.Contains(strings.ToLower(v.Name), needle) {
				return v.ID
			}
		}
	}
	return voices[0].ID
}
