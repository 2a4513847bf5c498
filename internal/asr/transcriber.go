package asr

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the recognition engine cannot currently be
// reached (circuit open or repeated transport failures). The utterance
// is dropped; the session continues.
var ErrUnavailable = errors.New("transcription service unavailable")

// Transcriber converts one finished utterance of little-endian PCM16
// mono audio into text.
//
// Implementations may return an empty string when no speech is
// detected, and may produce different phrasings across repeated calls
// on identical input — callers must not assume determinism. Calls may
// take substantial wall-clock time and must be issued off the
// frame-ingestion path.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error)
}

// TranscriberFunc adapts a function to the Transcriber interface
type TranscriberFunc func(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error)

// Transcribe calls f
func (f TranscriberFunc) Transcribe(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error) {
	return f(ctx, pcm, sampleRate, lang)
}
