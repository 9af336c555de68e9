// Package wavout writes mono PCM WAV files from a float64 signal,
// grounded on the go-audio/wav + go-audio/audio + go-audio/transforms
// usage in brettbuddin-reverb's main.go: build a FloatBuffer, scale it to
// the target PCM bit depth, encode as an IntBuffer.
package wavout

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/transforms"
	"github.com/go-audio/wav"
)

const audioFormatPCM = 1

// Write encodes x as a mono WAV file at path, sampled at sampleRate Hz
// with the given bit depth (16 or 24, spec §6).
func Write(path string, x []float64, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavout: create %s: %w", path, err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, 1, audioFormatPCM)
	defer encoder.Close()

	buf := &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   append([]float64(nil), x...),
	}
	transforms.PCMScale(buf, bitDepth)

	return encoder.Write(buf.AsIntBuffer())
}
