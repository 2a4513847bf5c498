// Package session drives one live interview audio connection: it reads
// control and audio frames off a WebSocket, endpoints utterances, hands
// them to the transcription adapter off the ingestion path, and emits
// cleaned transcripts plus skill evidence.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hravatar/interview-gateway/internal/asr"
	"github.com/hravatar/interview-gateway/internal/audio"
	"github.com/hravatar/interview-gateway/internal/config"
	"github.com/hravatar/interview-gateway/internal/evidence"
	"github.com/hravatar/interview-gateway/internal/interview"
	"github.com/hravatar/interview-gateway/internal/observability"
	"github.com/hravatar/interview-gateway/internal/textnorm"
)

// utteranceJob is one endpointed utterance queued for transcription.
// lang and sampleRate are captured at queue time so a later "lang" or
// "start" event does not retroactively relabel audio already spoken.
type utteranceJob struct {
	pcm        []byte
	lang       string
	sampleRate int
	replyT     *float64 // timestamp for the final event, nil on stop-flush
	endSec     float64  // utterance end, seconds since session start
}

// Transcription keeps frame ingestion responsive by running on its own
// goroutine; jobs are serialized per session so emission order matches
// speaking order. When the queue backs up the newest utterance is
// dropped rather than blocking the read loop.
const jobQueueSize = 8

// Session holds the state of one live audio connection.
type Session struct {
	conn        *websocket.Conn
	cfg         *config.Config
	state       *interview.State
	transcriber asr.Transcriber
	extractor   *evidence.Extractor

	endpointer *audio.Endpointer
	gate       *emitGate

	sessionID string
	logger    zerolog.Logger
	metrics   *observability.SessionMetrics

	// Mutated only by the read loop; read by the worker.
	mu         sync.RWMutex
	sampleRate int
	lang       string
	start      time.Time

	jobs       chan utteranceJob
	workerDone chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	flushed   bool
}

// New creates a session for an upgraded WebSocket connection.
func New(conn *websocket.Conn, cfg *config.Config, state *interview.State, transcriber asr.Transcriber, extractor *evidence.Extractor) *Session {
	sessionID := observability.NewSessionID()

	epCfg := audio.EndpointerConfig{
		SampleRate:   cfg.DefaultSampleRate,
		EndSilence:   secsToDuration(cfg.EndSilenceSec),
		MaxUtterance: secsToDuration(cfg.MaxUtteranceSec),
		MinUtterance: secsToDuration(cfg.MinUtteranceSec),
		RMSThreshold: cfg.RMSThreshold,
	}

	return &Session{
		conn:        conn,
		cfg:         cfg,
		state:       state,
		transcriber: transcriber,
		extractor:   extractor,
		endpointer:  audio.NewEndpointer(epCfg),
		gate:        newEmitGate(secsToDuration(cfg.EmitDebounceSec)),
		sessionID:   sessionID,
		logger:      observability.WithSessionID(sessionID),
		metrics:     observability.NewSessionMetrics(sessionID),
		sampleRate:  cfg.DefaultSampleRate,
		lang:        cfg.DefaultLanguage,
		start:       time.Now(),
		jobs:        make(chan utteranceJob, jobQueueSize),
		workerDone:  make(chan struct{}),
	}
}

func secsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Run processes the connection until stop or disconnect. It blocks
// until the transcription worker has drained and the connection is
// closed; closing is idempotent on both paths.
func (s *Session) Run() {
	s.metrics.RecordSessionStart()
	s.logger.Info().Msg("Audio session started")

	go s.transcriptionWorker()

	defer func() {
		s.flushPending()
		close(s.jobs)
		<-s.workerDone
		s.close()
		s.metrics.RecordSessionEnd()
		s.logger.Info().Msg("Audio session ended")
	}()

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}

		switch msgType {
		case websocket.TextMessage:
			if stop := s.handleControl(data); stop {
				return
			}
		case websocket.BinaryMessage:
			s.handleAudioFrame(data)
		}
	}
}

// handleControl processes one control message and reports whether the
// session should stop. Malformed messages and unknown events are
// ignored.
func (s *Session) handleControl(data []byte) bool {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.Debug().Err(err).Msg("Ignoring malformed control message")
		return false
	}

	switch msg.Event {
	case "start":
		s.handleStart(msg)
	case "lang":
		if msg.Value != "" {
			s.mu.Lock()
			s.lang = msg.Value
			s.mu.Unlock()
			s.logger.Info().Str("lang", msg.Value).Msg("Language hint updated")
		}
	case "stop":
		s.logger.Info().Msg("Stop requested by client")
		return true
	default:
		s.logger.Debug().Str("event", msg.Event).Msg("Ignoring unknown control event")
	}
	return false
}

// handleStart resets session state for a fresh recording, including
// the accumulated evidence: a new recording starts a new interview.
// sample_rate and lang override the configured defaults when present.
func (s *Session) handleStart(msg controlMessage) {
	s.mu.Lock()
	if msg.SampleRate > 0 {
		s.sampleRate = msg.SampleRate
	}
	if msg.Lang != "" {
		s.lang = msg.Lang
	}
	s.start = time.Now()
	sampleRate := s.sampleRate
	lang := s.lang
	s.mu.Unlock()

	s.endpointer = audio.NewEndpointer(audio.EndpointerConfig{
		SampleRate:   sampleRate,
		EndSilence:   secsToDuration(s.cfg.EndSilenceSec),
		MaxUtterance: secsToDuration(s.cfg.MaxUtteranceSec),
		MinUtterance: secsToDuration(s.cfg.MinUtteranceSec),
		RMSThreshold: s.cfg.RMSThreshold,
	})
	s.gate.Reset()
	s.state.Evidence().Reset()

	s.logger.Info().
		Int("sample_rate", sampleRate).
		Str("lang", lang).
		Msg("Session reset")

	s.send(readyEvent{Event: "ready"})
}

// handleAudioFrame feeds one binary frame to the endpointer and queues
// any completed utterance for transcription.
func (s *Session) handleAudioFrame(frame []byte) {
	s.metrics.RecordAudioBytes(int64(len(frame)))

	utterance, ok := s.endpointer.Push(frame, time.Now())
	if !ok {
		return
	}

	elapsed := time.Since(s.startTime()).Seconds()
	t := elapsed
	s.enqueue(utteranceJob{
		pcm:        utterance,
		lang:       s.language(),
		sampleRate: s.SampleRate(),
		replyT:     &t,
		endSec:     elapsed,
	})
}

// flushPending hands any buffered partial utterance to the worker,
// exactly once per session. The final event for a stop-flush carries a
// null timestamp.
func (s *Session) flushPending() {
	if s.flushed {
		return
	}
	s.flushed = true

	pcm, ok := s.endpointer.Flush()
	if !ok {
		return
	}
	s.enqueue(utteranceJob{
		pcm:        pcm,
		lang:       s.language(),
		sampleRate: s.SampleRate(),
		replyT:     nil,
		endSec:     time.Since(s.startTime()).Seconds(),
	})
}

func (s *Session) enqueue(job utteranceJob) {
	select {
	case s.jobs <- job:
	default:
		s.logger.Warn().
			Int("bytes", len(job.pcm)).
			Msg("Transcription queue full, dropping utterance")
		s.metrics.RecordSuppressed("queue_full")
	}
}

// transcriptionWorker consumes queued utterances one at a time: gain,
// transcription, normalization, dedup gate, emission, evidence.
func (s *Session) transcriptionWorker() {
	defer close(s.workerDone)

	for job := range s.jobs {
		s.processUtterance(job)
	}
}

func (s *Session) processUtterance(job utteranceJob) {
	pcm := audio.ApplyGain(job.pcm)

	s.metrics.RecordASRStart()
	text, err := s.transcriber.Transcribe(context.Background(), pcm, job.sampleRate, job.lang)
	s.metrics.RecordASREnd(err == nil)
	if err != nil {
		// Recoverable: the utterance is dropped, the session goes on.
		s.logger.Error().Err(err).Msg("Transcription failed, dropping utterance")
		s.metrics.RecordError("transcription_failure", "asr")
		return
	}

	clean := textnorm.Clean(text)
	if utf8.RuneCountInString(clean) < 2 {
		s.metrics.RecordSuppressed("too_short")
		return
	}

	if !s.gate.Allow(textnorm.DedupKey(clean), time.Now()) {
		s.logger.Debug().Str("text", clean).Msg("Suppressing duplicate emission")
		s.metrics.RecordSuppressed("duplicate")
		return
	}

	s.send(finalEvent{Event: "final", Text: clean, T: job.replyT})
	s.metrics.RecordEmission()

	evs := s.extractor.FromText(clean, job.endSec, s.state.Weights())
	if len(evs) == 0 {
		return
	}
	added := s.state.Evidence().AddAll(evs)
	if added > 0 {
		s.metrics.RecordEvidence(added)
		skills := make([]string, 0, len(evs))
		for _, ev := range evs {
			skills = append(skills, ev.Skill)
		}
		s.logger.Info().
			Strs("skills", skills).
			Str("quote", clean).
			Msg("Evidence recorded")
	}
}

// send writes one JSON event to the client. Write failures after the
// peer has gone away are swallowed; the read loop notices the closed
// connection and tears the session down.
func (s *Session) send(v interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		s.logger.Debug().Err(err).Msg("Dropping write to closed connection")
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}

// SampleRate returns the session's negotiated sample rate.
func (s *Session) SampleRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sampleRate
}

func (s *Session) language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

func (s *Session) startTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

// ID returns the session's correlation identifier.
func (s *Session) ID() string {
	return s.sessionID
}
