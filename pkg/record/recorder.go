package record

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Take is one recorded rehearsal pass of a scene.
type Take struct {
	ID        string        `json:"id"`
	SceneID   string        `json:"scene_id"`
	Path      string        `json:"path"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Recorder captures rehearsal takes to WAV files in a takes directory.
// At most one take records at a time.
type Recorder struct {
	dir        string
	sampleRate int
	newCapture func(CaptureConfig) (Capturer, error)

	mu     sync.Mutex
	active *activeTake
}

type activeTake struct {
	take Take
	cap  Capturer
	buf  bytes.Buffer
	done chan struct{}
}

// NewRecorder creates a recorder writing takes under dir.
func NewRecorder(dir string, sampleRate int) *Recorder {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Recorder{
		dir:        dir,
		sampleRate: sampleRate,
		newCapture: NewCapturer,
	}
}

// Recording reports whether a take is currently in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Start begins recording a take for the given scene.
func (r *Recorder) Start(ctx context.Context, sceneID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return fmt.Errorf("a take is already recording")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create takes directory: %w", err)
	}

	cap, err := r.newCapture(TakeConfig(r.sampleRate))
	if err != nil {
		return fmt.Errorf("failed to create capturer: %w", err)
	}
	if err := cap.Start(ctx); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}

	id := uuid.NewString()
	at := &activeTake{
		take: Take{
			ID:        id,
			SceneID:   sceneID,
			Path:      filepath.Join(r.dir, id+".wav"),
			CreatedAt: time.Now(),
		},
		cap:  cap,
		done: make(chan struct{}),
	}
	r.active = at

	go func() {
		defer close(at.done)
		for sample := range cap.Samples() {
			at.buf.Write(sample.Data)
		}
	}()

	return nil
}

// Stop finishes the current take and writes it to disk.
func (r *Recorder) Stop() (*Take, error) {
	r.mu.Lock()
	at := r.active
	r.active = nil
	r.mu.Unlock()

	if at == nil {
		return nil, fmt.Errorf("no take is recording")
	}

	if err := at.cap.Stop(); err != nil {
		return nil, fmt.Errorf("failed to stop capture: %w", err)
	}
	// The samples channel closes on Stop; wait for the drain to finish.
	<-at.done

	pcm := at.buf.Bytes()
	at.take.Duration = time.Duration(len(pcm)/2) * time.Second / time.Duration(r.sampleRate)

	if err := writeWAV(at.take.Path, pcm, r.sampleRate); err != nil {
		return nil, err
	}
	return &at.take, nil
}

// Discard aborts the current take without writing a file.
func (r *Recorder) Discard() error {
	r.mu.Lock()
	at := r.active
	r.active = nil
	r.mu.Unlock()

	if at == nil {
		return nil
	}
	if err := at.cap.Stop(); err != nil {
		return err
	}
	<-at.done
	return nil
}

// List returns the takes present in the takes directory, newest first.
func (r *Recorder) List() ([]Take, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var takes []Take
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".wav") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		takes = append(takes, Take{
			ID:        strings.TrimSuffix(e.Name(), ".wav"),
			Path:      filepath.Join(r.dir, e.Name()),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(takes, func(i, j int) bool {
		return takes[i].CreatedAt.After(takes[j].CreatedAt)
	})
	return takes, nil
}

// Delete removes a stored take by id.
func (r *Recorder) Delete(id string) error {
	return os.Remove(filepath.Join(r.dir, id+".wav"))
}

// writeWAV writes 16-bit mono PCM data as a canonical RIFF/WAVE file.
func writeWAV(path string, pcm []byte, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create take file: %w", err)
	}
	defer f.Close()

	var header bytes.Buffer
	dataLen := uint32(len(pcm))
	byteRate := uint32(sampleRate * 2) // mono, 16-bit

	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, 36+dataLen)
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	binary.Write(&header, binary.LittleEndian, uint32(16)) // PCM chunk size
	binary.Write(&header, binary.LittleEndian, uint16(1))  // PCM format
	binary.Write(&header, binary.LittleEndian, uint16(1))  // channels
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&header, binary.LittleEndian, byteRate)
	binary.Write(&header, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&header, binary.LittleEndian, uint16(16)) // bits per sample
	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, dataLen)

	if _, err := f.Write(header.Bytes()); err != nil {
		return fmt.Errorf("failed to write take header: %w", err)
	}
	if _, err := f.Write(pcm); err != nil {
		return fmt.Errorf("failed to write take data: %w", err)
	}
	return nil
}
