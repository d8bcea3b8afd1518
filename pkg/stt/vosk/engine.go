// Package vosk implements stt.Engine on the offline Vosk recognizer.
package vosk

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"

	"scenepartner/pkg/stt"
)

// Engine implements stt.Engine using Vosk.
type Engine struct {
	model       *vosk.VoskModel
	recognizer  *vosk.VoskRecognizer
	config      stt.Config
	mu          sync.Mutex
	initialized bool
}

// voskResult represents the JSON result from Vosk.
type voskResult struct {
	Text   string `json:"text"`
	Result []struct {
		Conf  float64 `json:"conf"`
		End   float64 `json:"end"`
		Start float64 `json:"start"`
		Word  string  `json:"word"`
	} `json:"result,omitempty"`
	Partial string `json:"partial,omitempty"`
}

// NewEngine creates a new Vosk STT engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Initialize loads the acoustic model and creates the recognizer.
func (v *Engine) Initialize(config stt.Config) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return fmt.Errorf("engine already initialized")
	}

	// Suppress Vosk's own logging
	vosk.SetLogLevel(-1)

	model, err := vosk.NewModel(config.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load model from %s: %w", config.ModelPath, err)
	}
	if model == nil {
		return fmt.Errorf("failed to load model from %s: model returned nil", config.ModelPath)
	}
	v.model = model

	recognizer, err := vosk.NewRecognizer(model, float64(config.SampleRate))
	if err != nil {
		model.Free()
		return fmt.Errorf("failed to create recognizer: %w", err)
	}
	v.recognizer = recognizer

	// Word results carry the per-word confidence scores
	v.recognizer.SetWords(1)

	v.config = config
	v.initialized = true

	return nil
}

// ProcessAudio processes audio data and returns recognition results.
func (v *Engine) ProcessAudio(ctx context.Context, audioData []byte) (*stt.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	state := v.recognizer.AcceptWaveform(audioData)

	var result stt.Result

	if state > 0 {
		// Final result available
		resultJSON := v.recognizer.Result()
		var vr voskResult
		if err := json.Unmarshal([]byte(resultJSON), &vr); err != nil {
			return nil, fmt.Errorf("failed to parse result: %w", err)
		}

		result.Text = vr.Text
		result.Partial = false
		result.Confidence = averageConfidence(vr)
	} else {
		partialJSON := v.recognizer.PartialResult()
		var vr voskResult
		if err := json.Unmarshal([]byte(partialJSON), &vr); err != nil {
			return nil, fmt.Errorf("failed to parse partial result: %w", err)
		}

		result.Text = vr.Partial
		result.Partial = true
		result.Confidence = 0.0
	}

	return &result, nil
}

// FinalResult returns the final result and resets the recognizer.
func (v *Engine) FinalResult() (*stt.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	resultJSON := v.recognizer.FinalResult()
	var vr voskResult
	if err := json.Unmarshal([]byte(resultJSON), &vr); err != nil {
		return nil, fmt.Errorf("failed to parse final result: %w", err)
	}

	return &stt.Result{
		Text:       vr.Text,
		Partial:    false,
		Confidence: averageConfidence(vr),
	}, nil
}

// Close releases resources.
func (v *Engine) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return nil
	}

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}

	v.initialized = false
	return nil
}

// IsInitialized returns true if the engine is initialized.
func (v *Engine) IsInitialized() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.initialized
}

func averageConfidence(result voskResult) float64 {
	if len(result.Result) == 0 {
		return 0.0
	}

	var sum float64
	for _, word := range result.Result {
		sum += word.Conf
	}
	return sum / float64(len(result.Result))
}
