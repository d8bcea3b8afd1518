package voice

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenepartner/pkg/model"
	"scenepartner/pkg/record"
	"scenepartner/pkg/stt"
	"scenepartner/pkg/tts"
)

// --- fakes ---

type fakeTTS struct {
	mu     sync.Mutex
	texts  []string
	voices []string
	fail   bool
}

func (f *fakeTTS) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	if f.fail {
		return "", assert.AnError
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voice)
	f.mu.Unlock()
	if err := os.WriteFile(outputPath+".wav", []byte("RIFF"), 0o644); err != nil {
		return "", err
	}
	return "wav", nil
}

func (f *fakeTTS) Voices(context.Context) ([]tts.Voice, error) {
	return []tts.Voice{{ID: "test-voice", Name: "Test"}}, nil
}

func (f *fakeTTS) spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func (f *fakeTTS) voicesUsed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.voices...)
}

type fakePlayer struct {
	mu       sync.Mutex
	played   []string
	stopped  int
	complete func()
	rate     float64
	volume   float64
}

func (f *fakePlayer) Play(path string, onComplete func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, path)
	f.complete = onComplete
	return nil
}

func (f *fakePlayer) finish() {
	f.mu.Lock()
	fn := f.complete
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (f *fakePlayer) Pause()  {}
func (f *fakePlayer) Resume() {}
func (f *fakePlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}
func (f *fakePlayer) Shutdown()               {}
func (f *fakePlayer) IsPlaying() bool         { return false }
func (f *fakePlayer) IsBusy() bool            { return false }
func (f *fakePlayer) IsPaused() bool          { return false }
func (f *fakePlayer) SetVolume(v float64)     { f.volume = v }
func (f *fakePlayer) Volume() float64         { return f.volume }
func (f *fakePlayer) SetRate(r float64)       { f.rate = r }
func (f *fakePlayer) Rate() float64           { return f.rate }
func (f *fakePlayer) ReplayLast(func()) bool  { return false }
func (f *fakePlayer) Position() time.Duration { return 0 }
func (f *fakePlayer) Duration() time.Duration { return 0 }

type fakeSTT struct {
	mu      sync.Mutex
	results []stt.Result
}

func (f *fakeSTT) Initialize(stt.Config) error { return nil }

func (f *fakeSTT) ProcessAudio(_ context.Context, _ []byte) (*stt.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) == 0 {
		return &stt.Result{Partial: true}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return &r, nil
}

func (f *fakeSTT) FinalResult() (*stt.Result, error) { return &stt.Result{}, nil }
func (f *fakeSTT) Close() error                      { return nil }
func (f *fakeSTT) IsInitialized() bool               { return true }

type fakeMic struct {
	samples chan record.AudioSample
	errors  chan error
	mu      sync.Mutex
	running bool
}

func newFakeMic(n int) *fakeMic {
	m := &fakeMic{
		samples: make(chan record.AudioSample, n+1),
		errors:  make(chan error, 1),
	}
	for i := 0; i < n; i++ {
		m.samples <- record.AudioSample{Data: []byte{0, 0}}
	}
	return m
}

func (m *fakeMic) Start(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = true
	return nil
}

func (m *fakeMic) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.running = false
		close(m.samples)
		close(m.errors)
	}
	return nil
}

func (m *fakeMic) Samples() <-chan record.AudioSample { return m.samples }
func (m *fakeMic) Errors() <-chan error               { return m.errors }
func (m *fakeMic) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

type fakeRecorder struct {
	recording bool
	takes     int
	failStart bool
	block     chan struct{}
}

func (f *fakeRecorder) Start(context.Context, string) error {
	if f.block != nil {
		<-f.block
	}
	if f.failStart {
		return assert.AnError
	}
	f.recording = true
	return nil
}

func (f *fakeRecorder) Stop() (*record.Take, error) {
	f.recording = false
	f.takes++
	return &record.Take{ID: "take-1"}, nil
}

func (f *fakeRecorder) Recording() bool { return f.recording }

// --- helpers ---

func newTestAdapter(t *testing.T, mic *fakeMic) (*Adapter, *fakeTTS, *fakePlayer, *fakeRecorder) {
	t.Helper()
	ft := &fakeTTS{}
	fp := &fakePlayer{}
	fr := &fakeRecorder{}
	a := NewAdapter(Config{
		TTS:      ft,
		Player:   fp,
		STT:      &fakeSTT{},
		Recorder: fr,
		Capabilities: model.Capabilities{
			Synthesis:   true,
			Recognition: true,
			Recording:   true,
		},
		TmpDir: t.TempDir(),
		NewCapturer: func(record.CaptureConfig) (record.Capturer, error) {
			return mic, nil
		},
	})
	return a, ft, fp, fr
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// --- tests ---

func TestSpeakTransitionsStatus(t *testing.T) {
	a, ft, fp, _ := newTestAdapter(t, newFakeMic(0))

	require.NoError(t, a.Speak(context.Background(), "We don't have time for this!"))
	assert.Equal(t, model.VoiceSpeaking, a.Status())
	assert.Equal(t, []string{"We don't have time for this!"}, ft.spoken())
	require.Len(t, fp.played, 1)

	fp.finish()
	waitFor(t, func() bool { return a.Status() == model.VoiceIdle })
}

func TestSpeakWithoutSynthesis(t *testing.T) {
	a := NewAdapter(Config{TmpDir: t.TempDir()})
	err := a.Speak(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoSynthesis)
	assert.Equal(t, model.VoiceIdle, a.Status())
}

func TestSynthesisFailureSurfacedAndIdle(t *testing.T) {
	a, ft, _, _ := newTestAdapter(t, newFakeMic(0))
	ft.fail = true

	err := a.Speak(context.Background(), "Hello")
	require.Error(t, err)
	assert.Equal(t, model.VoiceIdle, a.Status())
	assert.Error(t, a.LastError())
}

func TestSpeakPreemptsPrior(t *testing.T) {
	a, _, fp, _ := newTestAdapter(t, newFakeMic(0))

	require.NoError(t, a.Speak(context.Background(), "First line."))
	require.NoError(t, a.Speak(context.Background(), "Second line."))

	// The player replaces the stream internally; both plays were issued and
	// the adapter still reports a single speaking state.
	assert.Len(t, fp.played, 2)
	assert.Equal(t, model.VoiceSpeaking, a.Status())
}

func TestSpeakResolvesPreferredVoice(t *testing.T) {
	a, ft, _, _ := newTestAdapter(t, newFakeMic(0))

	// A name fragment resolves against the engine's catalog.
	a.ApplySettings(model.VoiceSettings{VoiceID: "test", Rate: 1.0, Volume: 1.0})
	require.NoError(t, a.Speak(context.Background(), "First."))

	// No preference falls back to the engine's first voice.
	a.ApplySettings(model.VoiceSettings{Rate: 1.0, Volume: 1.0})
	require.NoError(t, a.Speak(context.Background(), "Second."))

	assert.Equal(t, []string{"test-voice", "test-voice"}, ft.voicesUsed())
}

func TestListeningClearsWhenCaptureDies(t *testing.T) {
	mic := newFakeMic(0)
	a, _, _, _ := newTestAdapter(t, mic)

	require.NoError(t, a.Listen(context.Background()))
	assert.Equal(t, model.VoiceListening, a.Status())

	// The device stops underneath the adapter, without StopListening.
	require.NoError(t, mic.Stop())
	waitFor(t, func() bool { return a.Status() == model.VoiceIdle })

	// The microphone lease is free again.
	require.NoError(t, a.StartRecording(context.Background(), "med-01"))
	_, err := a.StopRecording()
	require.NoError(t, err)
}

func TestListenTriggersHintOnKeyword(t *testing.T) {
	mic := newFakeMic(3)
	a, _, _, _ := newTestAdapter(t, mic)
	a.stt.(*fakeSTT).results = []stt.Result{
		{Text: "just warming up", Partial: false},
		{Text: "okay run my LINE please", Partial: false},
	}

	var hints int
	var mu sync.Mutex
	a.OnHint(func() {
		mu.Lock()
		hints++
		mu.Unlock()
	})

	require.NoError(t, a.Listen(context.Background()))
	assert.Equal(t, model.VoiceListening, a.Status())

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return hints == 1
	})

	a.StopListening()
	assert.Equal(t, model.VoiceIdle, a.Status())
}

func TestMicrophoneLeaseIsExclusive(t *testing.T) {
	a, _, _, _ := newTestAdapter(t, newFakeMic(0))

	require.NoError(t, a.Listen(context.Background()))
	assert.ErrorIs(t, a.StartRecording(context.Background(), "med-01"), ErrMicBusy)
	a.StopListening()

	require.NoError(t, a.StartRecording(context.Background(), "med-01"))
	assert.ErrorIs(t, a.Listen(context.Background()), ErrMicBusy)
	assert.Equal(t, model.VoiceRecording, a.Status())

	take, err := a.StopRecording()
	require.NoError(t, err)
	assert.Equal(t, "take-1", take.ID)
	assert.Equal(t, model.VoiceIdle, a.Status())
}

func TestRecorderStartFailureLeavesIdle(t *testing.T) {
	a, _, _, fr := newTestAdapter(t, newFakeMic(0))
	fr.failStart = true

	err := a.StartRecording(context.Background(), "med-01")
	require.Error(t, err)
	assert.Equal(t, model.VoiceIdle, a.Status())

	// The failed attempt must not leave the lease held.
	require.NoError(t, a.Listen(context.Background()))
	a.StopListening()
}

func TestMicLeaseHeldWhileRecorderStarts(t *testing.T) {
	a, _, _, fr := newTestAdapter(t, newFakeMic(0))
	fr.block = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- a.StartRecording(context.Background(), "med-01") }()

	// The lease is claimed before the recorder finishes spinning up, so a
	// concurrent Listen cannot grab the microphone in between.
	waitFor(t, func() bool { return a.Status() == model.VoiceRecording })
	assert.ErrorIs(t, a.Listen(context.Background()), ErrMicBusy)

	close(fr.block)
	require.NoError(t, <-done)
	_, err := a.StopRecording()
	require.NoError(t, err)
}

func TestApplySettingsClampsAndPropagates(t *testing.T) {
	a, _, fp, _ := newTestAdapter(t, newFakeMic(0))

	out := a.ApplySettings(model.VoiceSettings{VoiceID: "test-voice", Rate: 5.0, Volume: -2.0})
	assert.Equal(t, 2.0, out.Rate)
	assert.Equal(t, 0.0, out.Volume)
	assert.Equal(t, 2.0, fp.rate)
	assert.Equal(t, 0.0, fp.volume)
	assert.Equal(t, out, a.Settings())
}
