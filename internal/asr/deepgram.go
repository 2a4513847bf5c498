package asr

import (
	"bytes"
	"context"
	"fmt"
	"time"

	restv1api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	restinterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listenClient "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
	"github.com/rs/zerolog"

	"github.com/hravatar/interview-gateway/internal/config"
	"github.com/hravatar/interview-gateway/internal/observability"
	"github.com/hravatar/interview-gateway/internal/resilience"
)

// DeepgramTranscriber implements Transcriber using Deepgram's
// prerecorded REST API: each finished utterance is submitted as one
// linear16 audio blob at the session's sample rate.
type DeepgramTranscriber struct {
	config         *config.Config
	client         *restv1api.Client
	circuitBreaker *resilience.CircuitBreaker
	logger         zerolog.Logger
}

// NewDeepgramTranscriber creates a Deepgram-backed transcriber
func NewDeepgramTranscriber(cfg *config.Config) *DeepgramTranscriber {
	rest := listenClient.NewREST(cfg.DeepgramAPIKey, &interfaces.ClientOptions{})

	circuitBreaker := resilience.NewCircuitBreaker(
		"deepgram",
		cfg.CircuitBreakerMaxFailures,
		time.Duration(cfg.CircuitBreakerResetTimeout)*time.Second,
	)

	return &DeepgramTranscriber{
		config:         cfg,
		client:         restv1api.New(rest),
		circuitBreaker: circuitBreaker,
		logger:         observability.GetLogger().With().Str("component", "asr").Logger(),
	}
}

// Transcribe submits one utterance and returns the recognized text.
// An empty transcript is a valid result (no speech detected); only
// transport/service failures are errors.
func (d *DeepgramTranscriber) Transcribe(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error) {
	if len(pcm) == 0 {
		return "", nil
	}
	if lang == "" {
		lang = d.config.DefaultLanguage
	}

	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:      d.config.DeepgramModel,
		Language:   lang,
		Encoding:   "linear16",
		SampleRate: sampleRate,
		Channels:   1,
		Punctuate:  true,
	}

	var transcript string
	err := d.circuitBreaker.Call(func() error {
		return resilience.Retry(func() error {
			res, err := d.client.FromStream(ctx, bytes.NewReader(pcm), options)
			if err != nil {
				return err
			}
			transcript = firstTranscript(res)
			return nil
		}, &resilience.RetryConfig{
			MaxAttempts:    d.config.RetryMaxAttempts,
			InitialBackoff: time.Duration(d.config.RetryInitialBackoff) * time.Millisecond,
		}, resilience.IsRetryableNetworkError)
	})

	observability.UpdateCircuitBreakerState("deepgram", int(d.circuitBreaker.GetState()))
	if err != nil {
		observability.IncrementCircuitBreakerFailures("deepgram")
		if d.circuitBreaker.GetState() == resilience.StateOpen {
			d.logger.Warn().Err(err).Msg("Deepgram circuit open, dropping utterance")
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("deepgram transcription failed: %w", err)
	}

	return transcript, nil
}

// firstTranscript extracts the best alternative of the first channel
func firstTranscript(res *restinterfaces.PreRecordedResponse) string {
	if res == nil || res.Results == nil {
		return ""
	}
	for _, ch := range res.Results.Channels {
		for _, alt := range ch.Alternatives {
			return alt.Transcript
		}
	}
	return ""
}
