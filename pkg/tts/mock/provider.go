// Package mock provides a synthesis provider that produces silence. It lets
// the rest of the pipeline run on machines without a real speech engine.
package mock

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"time"

	"scenepartner/pkg/tts"
)

const (
	sampleRate = 22050
	// wordsPerSecond approximates a conversational speaking pace so mock
	// playback takes a plausible amount of time.
	wordsPerSecond = 2.5
)

// Provider implements tts.Provider by writing silent WAV files sized to the
// text's approximate spoken duration.
type Provider struct{}

// NewProvider creates the mock provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Synthesize writes a silent WAV whose duration approximates speaking the
// text aloud.
func (p *Provider) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	dur := time.Duration(float64(words) / wordsPerSecond * float64(time.Second))
	if dur > 30*time.Second {
		dur = 30 * time.Second
	}

	if err := writeSilentWAV(outputPath, dur); err != nil {
		tts.Log("MOCK", text, 0, err)
		return "", fmt.Errorf("mock synthesis failed: %w", err)
	}
	tts.Log("MOCK", text, 200, nil)
	return "wav", nil
}

// Voices returns a single placeholder voice.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return []tts.Voice{{ID: "mock-default", Name: "Mock Voice"}}, nil
}

func writeSilentWAV(path string, dur time.Duration) error {
	samples := int(float64(sampleRate) * dur.Seconds())
	dataLen := samples * 2 // mono 16-bit

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], sampleRate)
	binary.LittleEndian.PutUint32(header[28:32], sampleRate*2)
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	if _, err := f.Write(header); err != nil {
		return err
	}
	if _, err := f.Write(make([]byte, dataLen)); err != nil {
		return err
	}
	return nil
}
