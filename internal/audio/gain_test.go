package audio

import (
	"bytes"
	"testing"
)

func TestApplyGain_LoudAudioPassesThrough(t *testing.T) {
	// Constant amplitude 13107 ≈ 0.4 RMS, well above the quiet threshold
	pcm := makePCM(1600, 13107)

	out := ApplyGain(pcm)
	if !bytes.Equal(out, pcm) {
		t.Error("Expected loud audio to pass through unchanged")
	}
}

func TestApplyGain_QuietAudioAmplified(t *testing.T) {
	// Constant amplitude 66 ≈ 0.002 RMS: gain is capped at
	// min(3.0, 0.02/0.002) = 3.0
	pcm := makePCM(1600, 66)

	out := ApplyGain(pcm)
	if bytes.Equal(out, pcm) {
		t.Fatal("Expected quiet audio to be amplified")
	}

	inRMS := FrameRMS(pcm)
	outRMS := FrameRMS(out)
	ratio := outRMS / inRMS
	if ratio < 2.9 || ratio > 3.1 {
		t.Errorf("Expected ~3.0x amplification, got %.3fx", ratio)
	}
}

func TestApplyGain_AmplifiedAudioClipped(t *testing.T) {
	// Mostly quiet with a single full-scale spike: the utterance RMS is
	// below threshold so gain applies, and the spike must clip instead
	// of wrapping around
	pcm := makePCM(16000, 30)
	pcm[0] = 0xff
	pcm[1] = 0x7f // +32767

	out := ApplyGain(pcm)
	spike := int16(out[0]) | int16(out[1])<<8
	if spike != 32767 {
		t.Errorf("Expected spike clipped to 32767, got %d", spike)
	}
}

func TestApplyGain_DoesNotModifyInput(t *testing.T) {
	pcm := makePCM(1600, 66)
	snapshot := make([]byte, len(pcm))
	copy(snapshot, pcm)

	ApplyGain(pcm)
	if !bytes.Equal(pcm, snapshot) {
		t.Error("Expected input buffer to be left untouched")
	}
}

func TestApplyGain_Silence(t *testing.T) {
	// All-zero audio has near-zero RMS; gain is capped so output stays silent
	pcm := makePCM(1600, 0)

	out := ApplyGain(pcm)
	if FrameRMS(out) > 1e-4 {
		t.Errorf("Expected silence to stay silent, got RMS %v", FrameRMS(out))
	}
}
