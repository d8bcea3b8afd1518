// Package record captures microphone audio for rehearsal takes and feeds the
// speech recognizer.
package record

import (
	"context"
	"time"
)

// CaptureConfig holds configuration for audio capture.
type CaptureConfig struct {
	// SampleRate is the number of samples per second (Hz).
	// Common values: 16000 (recommended for STT), 44100, 48000.
	SampleRate uint32

	// Channels is the number of audio channels.
	// 1 = mono (recommended for STT), 2 = stereo.
	Channels uint32

	// BufferFrames is the number of frames per buffer.
	// Smaller = lower latency, higher CPU usage.
	BufferFrames uint32

	// SampleBufferSize is the size of the channel buffer for audio samples.
	SampleBufferSize int
}

// RecognitionConfig returns a capture configuration optimized for speech
// recognition.
func RecognitionConfig(sampleRate int) CaptureConfig {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return CaptureConfig{
		SampleRate:       uint32(sampleRate),
		Channels:         1,
		BufferFrames:     480, // 30ms at 16kHz
		SampleBufferSize: 50,
	}
}

// TakeConfig returns a capture configuration for recorded takes.
func TakeConfig(sampleRate int) CaptureConfig {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return CaptureConfig{
		SampleRate:       uint32(sampleRate),
		Channels:         1,
		BufferFrames:     1024,
		SampleBufferSize: 100,
	}
}

// AudioSample represents a chunk of captured audio data.
type AudioSample struct {
	Data      []byte    // Raw 16-bit PCM data
	Timestamp time.Time // When the sample was captured
	Frames    uint32    // Number of audio frames in this sample
}

// Capturer is the interface for audio capture implementations.
type Capturer interface {
	// Start begins audio capture.
	Start(ctx context.Context) error

	// Stop stops audio capture.
	Stop() error

	// Samples returns a channel that receives audio samples.
	Samples() <-chan AudioSample

	// Errors returns a channel that receives capture errors.
	Errors() <-chan error

	// IsRunning returns true if capture is currently active.
	IsRunning() bool
}

// NewCapturer creates a new audio capturer with the given configuration.
func NewCapturer(config CaptureConfig) (Capturer, error) {
	return NewMalgoCapturer(config)
}
