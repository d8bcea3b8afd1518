// Package mock provides a canned coaching provider for offline use.
package mock

import (
	"context"
	"hash/fnv"
)

var notes = []string{
	"Slow down and let the pause land before the last word.",
	"Raise the stakes: say it like you might not get another chance.",
	"Drop the volume. Quiet intensity reads stronger than shouting here.",
	"Keep eye contact with your scene partner through the whole line.",
	"Take a breath first. The thought forms before the words do.",
}

// Provider implements llm.Provider with canned responses.
type Provider struct{}

// NewProvider creates the mock provider.
func NewProvider() *Provider {
	return &Provider{}
}

// GenerateText returns a canned note, stable for a given prompt.
func (p *Provider) GenerateText(_ context.Context, _ string, prompt string) (string, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return notes[h.Sum32()%uint32(len(notes))], nil
}

// HealthCheck always succeeds.
func (p *Provider) HealthCheck(_ context.Context) error {
	return nil
}
