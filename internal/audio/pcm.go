package audio

import "math"

// rmsEpsilon keeps the RMS computation stable on all-zero input
const rmsEpsilon = 1e-12

// Samples converts little-endian 16-bit signed mono PCM bytes to
// float64 samples normalized to [-1.0, 1.0).
// A trailing odd byte is ignored.
func Samples(pcm []byte) []float64 {
	n := len(pcm) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float64(s) / 32768.0
	}
	return samples
}

// PCM16 converts normalized float samples back to little-endian 16-bit
// signed mono PCM bytes. Samples are expected to already be within
// [-1.0, 1.0]; values outside are clipped.
func PCM16(samples []float64) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, v := range samples {
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		s := int16(v * 32767.0)
		pcm[i*2] = byte(s)
		pcm[i*2+1] = byte(s >> 8)
	}
	return pcm
}

// RMS computes the root-mean-square energy of normalized samples.
// Returns 0 for empty input.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum/float64(len(samples)) + rmsEpsilon)
}

// FrameRMS computes the RMS energy of a raw PCM16 byte frame.
func FrameRMS(pcm []byte) float64 {
	return RMS(Samples(pcm))
}
