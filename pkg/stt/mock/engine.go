// Package mock provides a no-op recognition engine for machines without a
// Vosk model. It accepts audio and never recognizes anything.
package mock

import (
	"scenepartner/pkg/stt"
)

// Engine implements stt.Engine without doing any recognition.
type Engine struct {
	initialized bool
}

// NewEngine creates the mock engine.
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Initialize(_ stt.Config) error {
	e.initialized = true
	return nil
}

func (e *Engine) ProcessAudio(_ []byte) (*stt.Result, error) {
	return nil, nil
}

func (e *Engine) FinalResult() (*stt.Result, error) {
	return nil, nil
}

func (e *Engine) Close() error {
	e.initialized = false
	return nil
}

func (e *Engine) IsInitialized() bool {
	return e.initialized
}
