package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"scenepartner/pkg/model"
	"scenepartner/pkg/record"
	"scenepartner/pkg/stt"
	"scenepartner/pkg/voice"
)

type fakePlayer struct {
	paused  int
	resumed int
	stopped int
	rate    float64
	volume  float64
}

func (f *fakePlayer) Play(string, func()) error { return nil }
func (f *fakePlayer) Pause()                    { f.paused++ }
func (f *fakePlayer) Resume()                   { f.resumed++ }
func (f *fakePlayer) Stop()                     { f.stopped++ }
func (f *fakePlayer) Shutdown()                 {}

func (f *fakePlayer) IsPlaying() bool       { return false }
func (f *fakePlayer) IsBusy() bool          { return false }
func (f *fakePlayer) IsPaused() bool        { return false }
func (f *fakePlayer) SetVolume(vol float64) { f.volume = vol }
func (f *fakePlayer) Volume() float64       { return f.volume }
func (f *fakePlayer) SetRate(rate float64)  { f.rate = rate }
func (f *fakePlayer) Rate() float64         { return f.rate }

func (f *fakePlayer) ReplayLast(func()) bool  { return false }
func (f *fakePlayer) Position() time.Duration { return 0 }
func (f *fakePlayer) Duration() time.Duration { return 0 }

type fakeSettingsStore struct {
	saved *model.VoiceSettings
}

func (f *fakeSettingsStore) GetVoiceSettings(context.Context) (model.VoiceSettings, bool) {
	if f.saved == nil {
		return model.VoiceSettings{}, false
	}
	return *f.saved, true
}

func (f *fakeSettingsStore) SaveVoiceSettings(_ context.Context, s model.VoiceSettings) error {
	f.saved = &s
	return nil
}

type idleSTT struct{}

func (idleSTT) Initialize(stt.Config) error       { return nil }
func (idleSTT) FinalResult() (*stt.Result, error) { return &stt.Result{}, nil }
func (idleSTT) Close() error                      { return nil }
func (idleSTT) IsInitialized() bool               { return true }

func (idleSTT) ProcessAudio(context.Context, []byte) (*stt.Result, error) {
	return &stt.Result{Partial: true}, nil
}

// watchdogMic mimics the real capturer: it stops itself when the context it
// was started with is cancelled.
type watchdogMic struct {
	mu      sync.Mutex
	samples chan record.AudioSample
	errors  chan error
	running bool
}

func newWatchdogMic() *watchdogMic {
	return &watchdogMic{
		samples: make(chan record.AudioSample),
		errors:  make(chan error, 1),
	}
}

func (m *watchdogMic) Start(ctx context.Context) error {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		_ = m.Stop()
	}()
	return nil
}

func (m *watchdogMic) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.running = false
		close(m.samples)
		close(m.errors)
	}
	return nil
}

func (m *watchdogMic) Samples() <-chan record.AudioSample { return m.samples }
func (m *watchdogMic) Errors() <-chan error               { return m.errors }

func (m *watchdogMic) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func newTestVoiceHandler() (*VoiceHandler, *fakePlayer, *fakeSettingsStore) {
	player := &fakePlayer{}
	st := &fakeSettingsStore{}
	adapter := voice.NewAdapter(voice.Config{Player: player})
	return NewVoiceHandler(adapter, player, st), player, st
}

func TestVoiceHandler_Status(t *testing.T) {
	h, _, _ := newTestVoiceHandler()

	req := httptest.NewRequest("GET", "/api/voice/status", http.NoBody)
	w := httptest.NewRecorder()
	h.HandleStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	var resp VoiceStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != model.VoiceIdle {
		t.Errorf("got voice status %q, want idle", resp.Status)
	}
	if resp.Capabilities.Synthesis || resp.Capabilities.Recognition {
		t.Errorf("bare adapter should report no capabilities: %+v", resp.Capabilities)
	}
}

func TestVoiceHandler_SetSettings(t *testing.T) {
	h, player, st := newTestVoiceHandler()

	body := `{"rate":5.0,"volume":-0.5}`
	req := httptest.NewRequest("POST", "/api/voice/settings", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleSetSettings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	var applied model.VoiceSettings
	if err := json.NewDecoder(w.Body).Decode(&applied); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if applied.Rate != 2.0 || applied.Volume != 0 {
		t.Errorf("settings not clamped: %+v", applied)
	}
	if player.rate != 2.0 {
		t.Errorf("rate not applied to player: %v", player.rate)
	}
	if st.saved == nil || st.saved.Rate != 2.0 {
		t.Errorf("settings not persisted: %+v", st.saved)
	}
}

func TestVoiceHandler_Playback(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		wantStatus int
		check      func(*testing.T, *fakePlayer)
	}{
		{
			name: "Pause", action: "pause", wantStatus: http.StatusOK,
			check: func(t *testing.T, p *fakePlayer) {
				if p.paused != 1 {
					t.Error("player not paused")
				}
			},
		},
		{
			name: "Resume", action: "resume", wantStatus: http.StatusOK,
			check: func(t *testing.T, p *fakePlayer) {
				if p.resumed != 1 {
					t.Error("player not resumed")
				}
			},
		},
		{
			name: "Stop", action: "stop", wantStatus: http.StatusOK,
			check: func(t *testing.T, p *fakePlayer) {
				if p.stopped != 1 {
					t.Error("player not stopped")
				}
			},
		},
		{name: "Unknown", action: "skip", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, player, _ := newTestVoiceHandler()
			body := `{"action":"` + tt.action + `"}`
			req := httptest.NewRequest("POST", "/api/voice/playback", strings.NewReader(body))
			w := httptest.NewRecorder()
			h.HandlePlayback(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.check != nil {
				tt.check(t, player)
			}
		})
	}
}

func TestVoiceHandler_ReplayWithoutHistory(t *testing.T) {
	h, _, _ := newTestVoiceHandler()

	req := httptest.NewRequest("POST", "/api/voice/playback", strings.NewReader(`{"action":"replay"}`))
	w := httptest.NewRecorder()
	h.HandlePlayback(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "error" {
		t.Errorf("got %+v, want error status for empty replay history", resp)
	}
}

func TestVoiceHandler_ListenOutlivesRequest(t *testing.T) {
	mic := newWatchdogMic()
	player := &fakePlayer{}
	adapter := voice.NewAdapter(voice.Config{
		Player:       player,
		STT:          idleSTT{},
		Capabilities: model.Capabilities{Recognition: true},
		NewCapturer: func(record.CaptureConfig) (record.Capturer, error) {
			return mic, nil
		},
	})
	h := NewVoiceHandler(adapter, player, &fakeSettingsStore{})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("POST", "/api/voice/listen", strings.NewReader(`{"action":"start"}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	h.HandleListen(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}

	// net/http cancels the request context as soon as the handler returns.
	cancel()
	time.Sleep(50 * time.Millisecond)
	if !mic.IsRunning() {
		t.Fatal("microphone stopped when the start request finished")
	}
	if got := adapter.Status(); got != model.VoiceListening {
		t.Errorf("got voice status %q, want listening", got)
	}

	stopReq := httptest.NewRequest("POST", "/api/voice/listen", strings.NewReader(`{"action":"stop"}`))
	w = httptest.NewRecorder()
	h.HandleListen(w, stopReq)
	if w.Code != http.StatusOK {
		t.Fatalf("stop: got status %d", w.Code)
	}
	if mic.IsRunning() {
		t.Error("microphone still running after stop")
	}
	if got := adapter.Status(); got != model.VoiceIdle {
		t.Errorf("got voice status %q, want idle", got)
	}
}

type ctxRecorder struct {
	mu  sync.Mutex
	ctx context.Context
}

func (f *ctxRecorder) Start(ctx context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctx = ctx
	return nil
}

func (f *ctxRecorder) Stop() (*record.Take, error) { return &record.Take{ID: "take-1"}, nil }
func (f *ctxRecorder) Recording() bool             { return false }

func (f *ctxRecorder) startCtx() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctx
}

func TestVoiceHandler_RecordingOutlivesRequest(t *testing.T) {
	rec := &ctxRecorder{}
	player := &fakePlayer{}
	adapter := voice.NewAdapter(voice.Config{
		Player:       player,
		Recorder:     rec,
		Capabilities: model.Capabilities{Recording: true},
	})
	h := NewVoiceHandler(adapter, player, &fakeSettingsStore{})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("POST", "/api/voice/record", strings.NewReader(`{"action":"start","scene_id":"med-01"}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	h.HandleRecord(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}

	cancel()
	if err := rec.startCtx().Err(); err != nil {
		t.Fatalf("recorder context died with the request: %v", err)
	}
	if got := adapter.Status(); got != model.VoiceRecording {
		t.Errorf("got voice status %q, want recording", got)
	}
}

func TestVoiceHandler_ListenWithoutRecognition(t *testing.T) {
	h, _, _ := newTestVoiceHandler()

	req := httptest.NewRequest("POST", "/api/voice/listen", strings.NewReader(`{"action":"start"}`))
	w := httptest.NewRecorder()
	h.HandleListen(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want 503", w.Code)
	}
}
