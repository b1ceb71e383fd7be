package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/scribelabs/meetscribe/internal/audio"
	"github.com/scribelabs/meetscribe/internal/config"
	"github.com/scribelabs/meetscribe/internal/media"
	"github.com/scribelabs/meetscribe/internal/summary"
	"github.com/scribelabs/meetscribe/internal/transcribe"
	"github.com/scribelabs/meetscribe/internal/transcript"
)

var (
	ErrSessionActive   = errors.New("a session is already active")
	ErrNoActiveSession = errors.New("no active session")
)

// Manager enforces the one-active-session rule and owns the shared
// dependencies sessions are built from.
type Manager struct {
	cfg        config.Config
	host       audio.Host
	streamer   transcribe.Streamer
	summarySvc *summary.Service
	events     EventSink
	logger     *slog.Logger

	meter  metric.Meter
	frames metric.Int64Counter

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	current *Session
	wg      sync.WaitGroup
}

// NewManager wires the session factory. summarySvc may be nil when
// summaries are disabled; events may be nil to discard them.
func NewManager(parent context.Context, cfg config.Config, host audio.Host, streamer transcribe.Streamer, summarySvc *summary.Service, events EventSink, logger *slog.Logger) *Manager {
	ctx, cancel := context.WithCancel(parent)
	if events == nil {
		events = NopSink{}
	}
	m := &Manager{
		cfg:        cfg,
		host:       host,
		streamer:   streamer,
		summarySvc: summarySvc,
		events:     events,
		logger:     logger.With(slog.String("component", "session-manager")),
		meter:      otel.Meter("github.com/scribelabs/meetscribe/session"),
		ctx:        ctx,
		cancel:     cancel,
	}
	if err := m.initMetrics(); err != nil {
		m.logger.Warn("failed to initialize metrics", slogError(err))
	}
	return m
}

func (m *Manager) initMetrics() error {
	frames, err := m.meter.Int64Counter("meetscribe.audio.frames",
		metric.WithDescription("Stereo frames mixed and streamed"))
	if err != nil {
		return err
	}
	m.frames = frames
	return nil
}

// Start begins a new session. An empty name falls back to the start
// timestamp; a trailing .txt is tolerated and trimmed. Output files are
// created and capture devices opened before the pipeline is launched, so
// failures surface here rather than mid-session, and a failed start leaves
// no files behind.
func (m *Manager) Start(name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		return nil, fmt.Errorf("manager closed: %w", m.ctx.Err())
	}
	if m.current != nil && m.current.Active() {
		return nil, ErrSessionActive
	}

	name = strings.TrimSuffix(strings.TrimSpace(name), ".txt")
	if name == "" {
		name = time.Now().Format("20060102-1504")
	}

	if err := os.MkdirAll(m.cfg.FilePath, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	sess, err := m.build(name)
	if err != nil {
		return nil, err
	}
	m.current = sess

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		sess.run()
	}()

	m.logger.Info("session started",
		slog.String("session_id", sess.ID),
		slog.String("name", name),
		slog.String("transcript", sess.transcriptPath))
	m.events.SessionStarted(name, sess.transcriptPath)
	return sess, nil
}

func (m *Manager) build(name string) (*Session, error) {
	transcriptPath := filepath.Join(m.cfg.FilePath, name+".txt")
	sink, err := transcript.NewSink(transcriptPath, m.events.SegmentFinal, m.logger)
	if err != nil {
		return nil, err
	}

	var wavSink *audio.WavSink
	var wavPath string

	// A failed start removes the output files it just created.
	discardOutputs := func() {
		_ = sink.Close()
		_ = os.Remove(transcriptPath)
		if wavSink != nil {
			_ = wavSink.Close()
		}
		if wavPath != "" {
			_ = os.Remove(wavPath)
		}
	}

	if m.cfg.SaveAudioEnabled {
		wavPath = filepath.Join(m.cfg.FilePath, name+".wav")
		wavSink, err = audio.NewWavSink(wavPath, m.cfg.Audio.SampleRate)
		if err != nil {
			discardOutputs()
			return nil, err
		}
	}

	var mic, spk audio.Device
	if m.cfg.Audio.MicrophoneEnabled {
		mic, err = m.host.Open(media.ChannelMicrophone, m.cfg.Audio.MicrophoneDevice)
		if err != nil {
			discardOutputs()
			return nil, err
		}
	}
	if m.cfg.Audio.SpeakerEnabled {
		spk, err = m.host.Open(media.ChannelSpeaker, m.cfg.Audio.SpeakerDevice)
		if err != nil {
			if mic != nil {
				_ = mic.Close()
			}
			discardOutputs()
			return nil, err
		}
	}

	streamCfg := transcribe.StreamConfig{
		LanguageCode: m.cfg.LanguageCode,
		SampleRate:   m.cfg.Audio.SampleRate,
	}
	if m.cfg.CustomVocabularyEnabled {
		streamCfg.VocabularyName = m.cfg.VocabularyName
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(m.ctx)
	sess := &Session{
		ID:             id,
		Name:           name,
		transcriptPath: transcriptPath,
		summaryPath:    summary.SummaryPath(transcriptPath),
		mic:            mic,
		spk:            spk,
		frameSamples:   audio.FrameSamples(m.cfg.Audio.SampleRate, m.cfg.Audio.FrameDurationMS),
		frameDuration:  time.Duration(m.cfg.Audio.FrameDurationMS) * time.Millisecond,
		relay:          transcribe.NewRelay(m.streamer, streamCfg, m.logger),
		sink:           sink,
		wav:            wavSink,
		summarySvc:     m.summarySvc,
		events:         m.events,
		logger:         m.logger.With(slog.String("session_id", id)),
		frames:         m.frames,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
	sess.active.Store(true)
	return sess, nil
}

// Stop signals the active session to wind down and returns it so callers
// can wait on Done. The stop itself is asynchronous, the way a stop button
// should feel.
func (m *Manager) Stop() (*Session, error) {
	m.mu.Lock()
	sess := m.current
	m.mu.Unlock()

	if sess == nil || !sess.Active() {
		return nil, ErrNoActiveSession
	}
	m.logger.Info("session stopping", slog.String("session_id", sess.ID))
	sess.Stop()
	return sess, nil
}

// Active reports whether a session is currently running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.Active()
}

// Devices lists the capture device names the host exposes.
func (m *Manager) Devices() ([]string, error) {
	return m.host.Inputs()
}

// Close stops any active session, waits for it to wind down, and releases
// the manager.
func (m *Manager) Close() {
	if sess, err := m.Stop(); err == nil {
		<-sess.Done()
	}
	m.cancel()
	m.wg.Wait()
}
