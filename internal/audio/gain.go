package audio

const (
	// quietRMS is the whole-utterance RMS below which gain is applied
	quietRMS = 0.01

	// targetRMS is the loudness the gain aims for
	targetRMS = 0.02

	// maxGain caps amplification so noise floors are not blown up
	maxGain = 3.0
)

// ApplyGain amplifies a finished utterance when it is judged too quiet,
// compensating for a low microphone level before transcription.
//
// When the whole-utterance RMS is below 0.01 every sample is multiplied
// by min(3.0, 0.02/rms) and hard-clipped to [-1.0, 1.0] before
// re-quantizing to 16-bit. Louder audio passes through unchanged.
// The input buffer is never modified.
func ApplyGain(pcm []byte) []byte {
	samples := Samples(pcm)
	rms := RMS(samples)
	if rms >= quietRMS {
		return pcm
	}

	denom := rms
	if denom < 1e-6 {
		denom = 1e-6
	}
	gain := targetRMS / denom
	if gain > maxGain {
		gain = maxGain
	}

	boosted := make([]float64, len(samples))
	for i, v := range samples {
		v *= gain
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		boosted[i] = v
	}
	return PCM16(boosted)
}
