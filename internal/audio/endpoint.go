package audio

import "time"

// EndpointerConfig holds per-session endpointing parameters
type EndpointerConfig struct {
	SampleRate   int           // Hz, PCM16 mono
	EndSilence   time.Duration // Silence required to declare end of utterance
	MaxUtterance time.Duration // Hard cap on one utterance's audio
	MinUtterance time.Duration // Shorter spans are discarded silently
	RMSThreshold float64       // Voice energy threshold on normalized samples
}

// DefaultEndpointerConfig returns the default endpointing parameters
// for 16 kHz interview audio
func DefaultEndpointerConfig() EndpointerConfig {
	return EndpointerConfig{
		SampleRate:   16000,
		EndSilence:   600 * time.Millisecond,
		MaxUtterance: 6 * time.Second,
		MinUtterance: 350 * time.Millisecond,
		RMSThreshold: 0.01,
	}
}

// Endpointer decides, frame by frame, where one spoken utterance ends
// in a continuous PCM byte stream. It owns a bounded buffer of recent
// audio: the buffer never exceeds MaxUtterance worth of bytes, the
// oldest excess being dropped from the front so the most recent audio
// is always kept.
//
// Endpointer is not safe for concurrent use; a session drives it from
// a single goroutine.
type Endpointer struct {
	cfg       EndpointerConfig
	buf       []byte
	lastVoice time.Time
}

// NewEndpointer creates an endpointer for one session
func NewEndpointer(cfg EndpointerConfig) *Endpointer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &Endpointer{cfg: cfg}
}

// maxBytes is the buffer cap: sample_rate * 2 bytes * MaxUtterance seconds
func (e *Endpointer) maxBytes() int {
	return int(float64(e.cfg.SampleRate) * 2 * e.cfg.MaxUtterance.Seconds())
}

func (e *Endpointer) minBytes() int {
	return int(float64(e.cfg.SampleRate) * 2 * e.cfg.MinUtterance.Seconds())
}

// BufferedBytes returns the current utterance buffer length
func (e *Endpointer) BufferedBytes() int {
	return len(e.buf)
}

// Push feeds one incoming audio frame and reports whether it completed
// an utterance. Zero-length and odd-length frames are ignored (treated
// as silence). Push never fails; if energy never crosses the threshold
// the endpointer simply never emits.
//
// When an end-of-utterance boundary is reached the buffered audio is
// returned iff its duration is at least MinUtterance; shorter spans are
// discarded. The buffer is cleared at every boundary so trailing
// silence is not carried into the next utterance.
func (e *Endpointer) Push(frame []byte, now time.Time) ([]byte, bool) {
	if len(frame) == 0 || len(frame)%2 != 0 {
		return nil, false
	}

	e.buf = append(e.buf, frame...)
	if excess := len(e.buf) - e.maxBytes(); excess > 0 {
		e.buf = append(e.buf[:0], e.buf[excess:]...)
	}

	// Energy of the incoming frame only, not the whole buffer
	if FrameRMS(frame) > e.cfg.RMSThreshold {
		e.lastVoice = now
	}

	if e.lastVoice.IsZero() || now.Sub(e.lastVoice) < e.cfg.EndSilence {
		return nil, false
	}

	// End-of-utterance boundary
	var out []byte
	ok := false
	if len(e.buf) >= e.minBytes() {
		out = make([]byte, len(e.buf))
		copy(out, e.buf)
		ok = true
	}
	e.buf = e.buf[:0]
	return out, ok
}

// Flush returns any pending partial utterance, applying the same
// minimum-duration gate but bypassing the silence-timeout condition.
// Used on stop or disconnect: session end declares the utterance
// finished even without a trailing silence gap.
func (e *Endpointer) Flush() ([]byte, bool) {
	defer func() { e.buf = e.buf[:0] }()

	if len(e.buf) < e.minBytes() {
		return nil, false
	}
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out, true
}

// Reset clears all endpointer state for a fresh session
func (e *Endpointer) Reset() {
	e.buf = e.buf[:0]
	e.lastVoice = time.Time{}
}
