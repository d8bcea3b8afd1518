package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"scenepartner/internal/api"
	"scenepartner/pkg/audio"
	"scenepartner/pkg/config"
	"scenepartner/pkg/db"
	"scenepartner/pkg/llm"
	"scenepartner/pkg/llm/gemini"
	llmmock "scenepartner/pkg/llm/mock"
	"scenepartner/pkg/logging"
	"scenepartner/pkg/model"
	"scenepartner/pkg/probe"
	"scenepartner/pkg/record"
	"scenepartner/pkg/rehearsal"
	"scenepartner/pkg/scenes"
	"scenepartner/pkg/store"
	"scenepartner/pkg/stt"
	sttmock "scenepartner/pkg/stt/mock"
	"scenepartner/pkg/stt/vosk"
	"scenepartner/pkg/tts"
	"scenepartner/pkg/tts/edgetts"
	ttsmock "scenepartner/pkg/tts/mock"
	"scenepartner/pkg/tts/sapi"
	"scenepartner/pkg/version"
	"scenepartner/pkg/voice"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault("configs/scenepartner.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: configs/scenepartner.yaml")
		return
	}

	if err := run(context.Background(), "configs/scenepartner.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// .env carries the API key during development; missing file is fine.
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()
	tts.SetLogPath(appCfg.Log.Voice.Path)

	slog.Info("ScenePartner started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	st := store.NewSQLiteStore(dbConn)

	repo := scenes.NewRepository(st, st)
	repo.LoadCustom(ctx)

	// Voice engines
	ttsProv := initTTS(appCfg)
	sttEngine := initSTT(appCfg)
	recorder := record.NewRecorder(appCfg.Record.Dir, appCfg.Record.SampleRate)
	player := audio.New()
	defer player.Shutdown()

	llmProv := initLLM(appCfg)

	// Startup Probes
	results := probe.Run(ctx, buildProbes(appCfg, ttsProv, sttEngine, st, llmProv))
	if err := probe.AnalyzeResults(results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}
	caps := model.Capabilities{
		Synthesis:   probe.Passed(results, "Speech Synthesis"),
		Recognition: probe.Passed(results, "Speech Recognition"),
		Recording:   probe.Passed(results, "Take Recording"),
	}
	slog.Info("Voice capabilities detected", "synthesis", caps.Synthesis, "recognition", caps.Recognition, "recording", caps.Recording)

	tmpDir := filepath.Join(os.TempDir(), "scenepartner")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}

	adapter := voice.NewAdapter(voice.Config{
		TTS:           ttsProv,
		Player:        player,
		STT:           sttEngine,
		Recorder:      recorder,
		Capabilities:  caps,
		TmpDir:        tmpDir,
		STTSampleRate: appCfg.STT.SampleRate,
		Logger:        logging.VoiceLogger,
	})
	defer adapter.Shutdown()

	// Restore persisted voice settings, falling back to config defaults.
	if saved, ok := st.GetVoiceSettings(ctx); ok {
		adapter.ApplySettings(saved)
	} else {
		adapter.ApplySettings(model.VoiceSettings{
			VoiceID: appCfg.TTS.EdgeTTS.VoiceID,
			Rate:    appCfg.TTS.Rate,
			Volume:  appCfg.TTS.Volume,
		})
	}

	mgr := rehearsal.NewManager(repo, adapter, st, appCfg.Rehearsal.HintWords)
	mgr.Restore(ctx)

	var coach *rehearsal.Coach
	if llmProv != nil {
		coach = rehearsal.NewCoach(llmProv, st, logging.CoachLogger)
	}

	// Event stream and voice cue wiring
	events := api.NewEventHub()
	defer events.Shutdown()
	adapter.OnStatus(func(s model.VoiceStatus) {
		events.Broadcast("voice_status", s)
	})
	adapter.OnHint(func() {
		hint, err := mgr.Hint(ctx)
		if err != nil {
			slog.Debug("Cue word heard but no hint available", "error", err)
			return
		}
		events.Broadcast("hint", hint)
	})

	return runServer(ctx, appCfg, repo, mgr, coach, adapter, player, recorder, st, events)
}

// initTTS picks the synthesis engine. Unknown engines disable synthesis.
func initTTS(cfg *config.Config) tts.Provider {
	switch cfg.TTS.Engine {
	case "windows-sapi":
		return sapi.NewProvider()
	case "edge-tts":
		return edgetts.NewProvider()
	case "mock":
		return ttsmock.NewProvider()
	}
	slog.Warn("Unknown TTS engine, synthesis disabled", "engine", cfg.TTS.Engine)
	return nil
}

// initSTT picks and initializes the recognition engine. "off" and failures
// disable recognition rather than blocking startup.
func initSTT(cfg *config.Config) stt.Engine {
	switch cfg.STT.Engine {
	case "vosk":
		engine := vosk.NewEngine()
		sttCfg := stt.DefaultConfig(cfg.STT.ModelPath)
		if cfg.STT.SampleRate > 0 {
			sttCfg.SampleRate = cfg.STT.SampleRate
		}
		if err := engine.Initialize(sttCfg); err != nil {
			slog.Warn("Speech recognition unavailable", "error", err)
			return nil
		}
		return engine
	case "mock":
		engine := sttmock.NewEngine()
		_ = engine.Initialize(stt.DefaultConfig(""))
		return engine
	case "off":
		return nil
	}
	slog.Warn("Unknown STT engine, recognition disabled", "engine", cfg.STT.Engine)
	return nil
}

// initLLM picks the coaching provider. No key means no live coaching; cached
// notes still work.
func initLLM(cfg *config.Config) llm.Provider {
	switch cfg.LLM.Provider {
	case "gemini":
		client, err := gemini.NewClient(cfg.LLM, cfg.Log.Coach.Path)
		if err != nil {
			slog.Warn("Coaching provider unavailable", "error", err)
			return nil
		}
		return client
	case "mock":
		return llmmock.NewProvider()
	}
	slog.Warn("Unknown LLM provider, coaching disabled", "provider", cfg.LLM.Provider)
	return nil
}

func buildProbes(cfg *config.Config, ttsProv tts.Provider, sttEngine stt.Engine, st store.Store, llmProv llm.Provider) []probe.Probe {
	probes := []probe.Probe{
		{
			Name: "Database",
			Check: func(ctx context.Context) error {
				_, _ = st.GetState(ctx, "startup_probe")
				return nil
			},
			Critical: true,
		},
		{
			Name: "Speech Synthesis",
			Check: func(ctx context.Context) error {
				if ttsProv == nil {
					return fmt.Errorf("no synthesis engine configured")
				}
				voices, err := ttsProv.Voices(ctx)
				if err != nil {
					return err
				}
				if len(voices) == 0 {
					return fmt.Errorf("no voices available")
				}
				return nil
			},
		},
		{
			Name: "Speech Recognition",
			Check: func(ctx context.Context) error {
				if sttEngine == nil {
					return fmt.Errorf("no recognition engine configured")
				}
				if !sttEngine.IsInitialized() {
					return fmt.Errorf("recognition engine failed to initialize")
				}
				return nil
			},
		},
		{
			Name: "Take Recording",
			Check: func(ctx context.Context) error {
				return os.MkdirAll(cfg.Record.Dir, 0o755)
			},
		},
	}
	if llmProv != nil {
		probes = append(probes, probe.Probe{
			Name:  "Coaching Provider",
			Check: llmProv.HealthCheck,
		})
	}
	return probes
}

func runServer(ctx context.Context, cfg *config.Config, repo *scenes.Repository, mgr *rehearsal.Manager, coach *rehearsal.Coach, adapter *voice.Adapter, player audio.Service, recorder *record.Recorder, st store.Store, events *api.EventHub) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		api.NewSceneHandler(repo),
		api.NewSessionHandler(mgr, coach),
		api.NewAnnotationHandler(st, repo),
		api.NewVoiceHandler(adapter, player, st),
		api.NewTakeHandler(recorder),
		events,
		shutdownFunc,
	)

	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
