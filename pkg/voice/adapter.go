// Package voice coordinates speech output, speech recognition, and take
// recording behind a single adapter with one status surface.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"scenepartner/pkg/audio"
	"scenepartner/pkg/model"
	"scenepartner/pkg/record"
	"scenepartner/pkg/stt"
	"scenepartner/pkg/tts"
)

// cueKeyword triggers a hint when it appears anywhere in a recognized
// utterance ("line", "run my line", "what's my line").
const cueKeyword = "line"

var (
	// ErrNoSynthesis is returned when no speech synthesis engine is available.
	ErrNoSynthesis = errors.New("speech synthesis is not available")
	// ErrNoRecognition is returned when no speech recognition engine is available.
	ErrNoRecognition = errors.New("speech recognition is not available")
	// ErrNoRecording is returned when no capture device is available.
	ErrNoRecording = errors.New("audio recording is not available")
	// ErrMicBusy is returned when recognition and recording contend for the
	// single microphone.
	ErrMicBusy = errors.New("microphone is already in use")
)

// TakeRecorder is the slice of the take recorder the adapter drives.
type TakeRecorder interface {
	Start(ctx context.Context, sceneID string) error
	Stop() (*record.Take, error)
	Recording() bool
}

// Config assembles the adapter's engines. Nil engines disable the matching
// capability.
type Config struct {
	TTS      tts.Provider
	Player   audio.Service
	STT      stt.Engine
	Recorder TakeRecorder

	Capabilities model.Capabilities
	TmpDir       string

	// STTSampleRate is the recognition capture rate in Hz (default 16000).
	STTSampleRate int

	// NewCapturer overrides the microphone capturer factory, for tests.
	NewCapturer func(record.CaptureConfig) (record.Capturer, error)

	Logger *slog.Logger
}

// Adapter is the voice I/O front door. All methods are safe for concurrent
// use.
type Adapter struct {
	tts      tts.Provider
	player   audio.Service
	stt      stt.Engine
	recorder TakeRecorder
	caps     model.Capabilities
	tmpDir   string
	sttRate  int
	newCap   func(record.CaptureConfig) (record.Capturer, error)
	log      *slog.Logger

	mu          sync.Mutex
	settings    model.VoiceSettings
	speaking    bool
	listening   bool
	recording   bool
	speakCancel context.CancelFunc
	listenStop  func()
	lastErr     error

	// resolvedVoice caches the catalog lookup for resolvedFor, so Speak does
	// not re-list voices on every line.
	resolvedFor   string
	resolvedVoice string

	onHint   func()
	onStatus func(model.VoiceStatus)
}

// NewAdapter builds an adapter from the given engines.
func NewAdapter(cfg Config) *Adapter {
	newCap := cfg.NewCapturer
	if newCap == nil {
		newCap = record.NewCapturer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rate := cfg.STTSampleRate
	if rate <= 0 {
		rate = 16000
	}
	return &Adapter{
		tts:      cfg.TTS,
		player:   cfg.Player,
		stt:      cfg.STT,
		recorder: cfg.Recorder,
		caps:     cfg.Capabilities,
		tmpDir:   cfg.TmpDir,
		sttRate:  rate,
		newCap:   newCap,
		log:      logger,
		settings: model.DefaultVoiceSettings(),
	}
}

// Capabilities reports which voice features were detected at startup.
func (a *Adapter) Capabilities() model.Capabilities {
	return a.caps
}

// Status returns the current adapter status. Recording and speaking win
// over listening.
func (a *Adapter) Status() model.VoiceStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *Adapter) statusLocked() model.VoiceStatus {
	switch {
	case a.recording:
		return model.VoiceRecording
	case a.speaking:
		return model.VoiceSpeaking
	case a.listening:
		return model.VoiceListening
	default:
		return model.VoiceIdle
	}
}

// LastError returns the most recent platform error, if any.
func (a *Adapter) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// OnHint registers the callback fired when a recognized utterance asks for a
// line cue.
func (a *Adapter) OnHint(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onHint = fn
}

// OnStatus registers the callback fired on every status change.
func (a *Adapter) OnStatus(fn func(model.VoiceStatus)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStatus = fn
}

func (a *Adapter) notifyLocked() {
	if a.onStatus != nil {
		go a.onStatus(a.statusLocked())
	}
}

// Settings returns the current voice settings.
func (a *Adapter) Settings() model.VoiceSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// ApplySettings clamps and applies voice settings to the playback chain.
func (a *Adapter) ApplySettings(s model.VoiceSettings) model.VoiceSettings {
	s.Clamp()
	a.mu.Lock()
	if s.VoiceID != a.settings.VoiceID {
		a.resolvedFor, a.resolvedVoice = "", ""
	}
	a.settings = s
	a.mu.Unlock()

	if a.player != nil {
		a.player.SetRate(s.Rate)
		a.player.SetVolume(s.Volume)
	}
	return s
}

// Voices lists the synthesis voices available on this platform.
func (a *Adapter) Voices(ctx context.Context) ([]tts.Voice, error) {
	if !a.caps.Synthesis || a.tts == nil {
		return nil, ErrNoSynthesis
	}
	return a.tts.Voices(ctx)
}

// Speak synthesizes and plays the given text, preempting any utterance
// already in flight. It returns once playback has started; completion is
// reflected in the status stream.
func (a *Adapter) Speak(ctx context.Context, text string) error {
	if !a.caps.Synthesis || a.tts == nil || a.player == nil {
		return ErrNoSynthesis
	}

	a.mu.Lock()
	if a.speakCancel != nil {
		a.speakCancel()
	}
	sctx, cancel := context.WithCancel(ctx)
	a.speakCancel = cancel
	a.speaking = true
	a.lastErr = nil
	preferred := a.settings.VoiceID
	a.notifyLocked()
	a.mu.Unlock()

	voiceID := a.voiceFor(sctx, preferred)
	outPath := filepath.Join(a.tmpDir, "line-"+uuid.NewString())
	format, err := a.tts.Synthesize(sctx, text, voiceID, outPath)
	if err != nil {
		if sctx.Err() != nil {
			// Preempted by a newer utterance or restart; not an error.
			return nil
		}
		a.fail(fmt.Errorf("synthesis failed: %w", err))
		return err
	}
	if sctx.Err() != nil {
		return nil
	}

	full := outPath + "." + format
	err = a.player.Play(full, func() {
		a.mu.Lock()
		a.speaking = false
		a.notifyLocked()
		a.mu.Unlock()
	})
	if err != nil {
		a.fail(fmt.Errorf("playback failed: %w", err))
		return err
	}

	a.log.Info("voice: speaking", "chars", len(text), "format", format)
	return nil
}

// voiceFor resolves the preferred voice against the engine's catalog: an
// exact id match, then a name-substring match, then the engine's first voice.
// The result is cached until the preference changes.
func (a *Adapter) voiceFor(ctx context.Context, preferred string) string {
	a.mu.Lock()
	if a.resolvedFor == preferred && a.resolvedVoice != "" {
		id := a.resolvedVoice
		a.mu.Unlock()
		return id
	}
	a.mu.Unlock()

	voices, err := a.tts.Voices(ctx)
	if err != nil {
		a.log.Warn("voice: failed to list voices", "error", err)
		return preferred
	}
	id := tts.SelectVoice(voices, preferred)
	a.mu.Lock()
	a.resolvedFor, a.resolvedVoice = preferred, id
	a.mu.Unlock()
	return id
}

// StopSpeaking cancels the current utterance, if any.
func (a *Adapter) StopSpeaking() {
	a.mu.Lock()
	if a.speakCancel != nil {
		a.speakCancel()
		a.speakCancel = nil
	}
	a.speaking = false
	a.notifyLocked()
	a.mu.Unlock()

	if a.player != nil {
		a.player.Stop()
	}
}

// fail records a platform error and drops back to idle.
func (a *Adapter) fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speaking = false
	a.lastErr = err
	a.log.Error("voice: platform error", "error", err)
	a.notifyLocked()
}

// Listen starts continuous speech recognition. The microphone is a single
// resource: listening excludes recording and vice versa.
func (a *Adapter) Listen(ctx context.Context) error {
	if !a.caps.Recognition || a.stt == nil {
		return ErrNoRecognition
	}

	a.mu.Lock()
	if a.recording {
		a.mu.Unlock()
		return ErrMicBusy
	}
	if a.listening {
		a.mu.Unlock()
		return nil
	}

	mic, err := a.newCap(record.RecognitionConfig(a.sttRate))
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("failed to open microphone: %w", err)
	}
	lctx, cancel := context.WithCancel(ctx)
	if err := mic.Start(lctx); err != nil {
		cancel()
		a.mu.Unlock()
		return fmt.Errorf("failed to start capture: %w", err)
	}

	a.listening = true
	a.listenStop = func() {
		cancel()
		_ = mic.Stop()
	}
	a.notifyLocked()
	a.mu.Unlock()

	go a.recognize(lctx, mic)
	return nil
}

func (a *Adapter) recognize(ctx context.Context, mic record.Capturer) {
	for sample := range mic.Samples() {
		res, err := a.stt.ProcessAudio(ctx, sample.Data)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			a.mu.Lock()
			a.listening = false
			a.lastErr = fmt.Errorf("recognition failed: %w", err)
			a.notifyLocked()
			a.mu.Unlock()
			return
		}
		if res.Partial || res.Text == "" {
			continue
		}
		a.handleUtterance(res.Text)
	}

	// The capture device stopped on its own (device failure, external stop).
	// StopListening cancels ctx first, so a live ctx here means the flag is
	// stale and the status would otherwise report listening forever.
	a.mu.Lock()
	if a.listening && ctx.Err() == nil {
		a.listening = false
		a.listenStop = nil
		a.notifyLocked()
	}
	a.mu.Unlock()
}

func (a *Adapter) handleUtterance(text string) {
	a.log.Info("voice: recognized", "text", text)
	if strings.Contains(strings.ToLower(text), cueKeyword) {
		a.mu.Lock()
		fn := a.onHint
		a.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

// StopListening ends speech recognition and releases the microphone.
func (a *Adapter) StopListening() {
	a.mu.Lock()
	stop := a.listenStop
	a.listenStop = nil
	a.listening = false
	a.notifyLocked()
	a.mu.Unlock()

	if stop != nil {
		stop()
	}
	if a.stt != nil && a.stt.IsInitialized() {
		if _, err := a.stt.FinalResult(); err != nil {
			a.log.Warn("voice: failed to flush recognizer", "error", err)
		}
	}
}

// StartRecording begins capturing a rehearsal take.
func (a *Adapter) StartRecording(ctx context.Context, sceneID string) error {
	if !a.caps.Recording || a.recorder == nil {
		return ErrNoRecording
	}

	// The flag flips inside the same critical section as the lease checks, so
	// a concurrent Listen cannot slip in while the recorder spins up.
	a.mu.Lock()
	if a.listening {
		a.mu.Unlock()
		return ErrMicBusy
	}
	if a.recording {
		a.mu.Unlock()
		return fmt.Errorf("a take is already recording")
	}
	a.recording = true
	a.notifyLocked()
	a.mu.Unlock()

	if err := a.recorder.Start(ctx, sceneID); err != nil {
		a.mu.Lock()
		a.recording = false
		a.notifyLocked()
		a.mu.Unlock()
		return err
	}
	return nil
}

// StopRecording finishes the current take.
func (a *Adapter) StopRecording() (*record.Take, error) {
	a.mu.Lock()
	if !a.recording {
		a.mu.Unlock()
		return nil, fmt.Errorf("no take is recording")
	}
	a.recording = false
	a.notifyLocked()
	a.mu.Unlock()

	take, err := a.recorder.Stop()
	if err != nil {
		return nil, err
	}
	a.log.Info("voice: take recorded", "id", take.ID, "duration", take.Duration)
	return take, nil
}

// Shutdown stops all voice activity.
func (a *Adapter) Shutdown() {
	a.StopSpeaking()
	a.StopListening()
	a.mu.Lock()
	wasRecording := a.recording
	a.recording = false
	a.mu.Unlock()
	if wasRecording && a.recorder != nil {
		_, _ = a.recorder.Stop()
	}
	if a.player != nil {
		a.player.Shutdown()
	}
}
