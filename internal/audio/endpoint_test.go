package audio

import (
	"testing"
	"time"
)

const testFrameSamples = 320 // 20ms at 16kHz

func testConfig() EndpointerConfig {
	return EndpointerConfig{
		SampleRate:   16000,
		EndSilence:   600 * time.Millisecond,
		MaxUtterance: 6 * time.Second,
		MinUtterance: 350 * time.Millisecond,
		RMSThreshold: 0.01,
	}
}

// feed pushes count frames of the given amplitude, advancing the clock
// 20ms per frame, and returns the last emitted utterance (if any) plus
// the advanced clock
func feed(e *Endpointer, now time.Time, count int, amplitude int16) ([]byte, bool, time.Time) {
	var out []byte
	emitted := false
	for i := 0; i < count; i++ {
		now = now.Add(20 * time.Millisecond)
		if pcm, ok := e.Push(makePCM(testFrameSamples, amplitude), now); ok {
			out = pcm
			emitted = true
		}
	}
	return out, emitted, now
}

func TestEndpointer_EmitsAfterSilence(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	// 1s of voiced audio, then silence until the timeout elapses
	_, emitted, now := feed(e, now, 50, 2000)
	if emitted {
		t.Fatal("Should not emit while voice is present")
	}

	pcm, emitted, _ := feed(e, now, 40, 0)
	if !emitted {
		t.Fatal("Expected an utterance after the silence timeout")
	}
	if len(pcm) < e.minBytes() {
		t.Errorf("Emitted utterance shorter than the minimum: %d bytes", len(pcm))
	}
}

func TestEndpointer_ShortUtteranceDiscarded(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	// 0.2s of voice, then the client goes quiet without streaming
	// silence: the next frame arrives after the timeout, so the buffer
	// holds only 0.22s at the boundary — below the 0.35s minimum
	_, _, now = feed(e, now, 10, 2000)

	if _, ok := e.Push(makePCM(testFrameSamples, 0), now.Add(700*time.Millisecond)); ok {
		t.Error("Expected sub-minimum utterance to be discarded silently")
	}
	if e.BufferedBytes() != 0 {
		t.Error("Expected buffer to be cleared at the boundary")
	}
}

func TestEndpointer_MinimumGateMeasuresWholeBuffer(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	// 0.2s of voice followed by streamed silence: the trailing silence
	// frames keep accumulating, so by the time the boundary fires the
	// buffered span is past the minimum and must be emitted
	_, _, now = feed(e, now, 10, 2000)

	pcm, emitted, _ := feed(e, now, 40, 0)
	if !emitted {
		t.Fatal("Expected emission once the buffered span crosses the minimum")
	}
	if len(pcm) < e.minBytes() {
		t.Errorf("Emitted utterance shorter than the minimum: %d bytes", len(pcm))
	}
}

func TestEndpointer_BufferNeverExceedsCap(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)
	limit := e.maxBytes()

	// 20 seconds of continuous voice with no silence: the buffer must
	// stay bounded the whole time
	for i := 0; i < 1000; i++ {
		now = now.Add(20 * time.Millisecond)
		e.Push(makePCM(testFrameSamples, 2000), now)
		if e.BufferedBytes() > limit {
			t.Fatalf("Buffer exceeded cap at frame %d: %d > %d", i, e.BufferedBytes(), limit)
		}
	}
}

func TestEndpointer_EmittedUtteranceBounded(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	// 10s of voice, far beyond MaxUtterance, then silence
	_, _, now = feed(e, now, 500, 2000)
	pcm, emitted, _ := feed(e, now, 40, 0)
	if !emitted {
		t.Fatal("Expected an utterance")
	}
	if len(pcm) > e.maxBytes() {
		t.Errorf("Utterance exceeds MaxUtterance worth of bytes: %d > %d", len(pcm), e.maxBytes())
	}
}

func TestEndpointer_NeverEmitsWithoutVoice(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	// Pure silence never crosses the energy threshold, so the engine
	// degrades to "never emit"
	_, emitted, _ := feed(e, now, 200, 0)
	if emitted {
		t.Error("Expected no emission for all-silent input")
	}
}

func TestEndpointer_MalformedFramesIgnored(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	if _, ok := e.Push(nil, now); ok {
		t.Error("Expected zero-length frame to be ignored")
	}
	if _, ok := e.Push([]byte{0x01, 0x02, 0x03}, now); ok {
		t.Error("Expected odd-length frame to be ignored")
	}
	if e.BufferedBytes() != 0 {
		t.Error("Expected malformed frames to leave the buffer untouched")
	}
}

func TestEndpointer_Flush(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	// 1s of voice with no trailing silence: only a flush can finish it
	feed(e, now, 50, 2000)

	pcm, ok := e.Flush()
	if !ok {
		t.Fatal("Expected flush to return the pending utterance")
	}
	if len(pcm) == 0 {
		t.Fatal("Expected non-empty flushed audio")
	}

	// Buffer is consumed; a second flush has nothing to return
	if _, ok := e.Flush(); ok {
		t.Error("Expected second flush to be empty")
	}
}

func TestEndpointer_FlushRespectsMinimum(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	feed(e, now, 5, 2000) // 0.1s, below minimum

	if _, ok := e.Flush(); ok {
		t.Error("Expected flush to discard sub-minimum audio")
	}
	if e.BufferedBytes() != 0 {
		t.Error("Expected flush to clear the buffer either way")
	}
}

func TestEndpointer_SilenceNotCarriedForward(t *testing.T) {
	e := NewEndpointer(testConfig())
	now := time.Unix(1000, 0)

	// First utterance
	_, _, now = feed(e, now, 50, 2000)
	_, emitted, now := feed(e, now, 40, 0)
	if !emitted {
		t.Fatal("Expected first utterance")
	}

	// A long stretch of further silence keeps clearing the buffer, so a
	// second utterance contains only fresh audio
	_, _, now = feed(e, now, 100, 0)
	_, _, now = feed(e, now, 50, 2000)
	pcm, emitted, _ := feed(e, now, 40, 0)
	if !emitted {
		t.Fatal("Expected second utterance")
	}

	// 50 voiced + up to 30 silent frames before the boundary fires
	maxExpected := (50 + 31) * testFrameSamples * 2
	if len(pcm) > maxExpected {
		t.Errorf("Second utterance carries stale audio: %d > %d bytes", len(pcm), maxExpected)
	}
}
