// Package waveform turns audio files into peak buckets the track
// surfaces can draw, with a content-keyed cache so repeated opens of
// the same file never decode twice.
package waveform

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// PeaksPerSecond is the fixed peak bucket rate. Fifty buckets per
// second is enough resolution for any zoom level the editor allows.
const PeaksPerSecond = 50

// Peaks is the decoded waveform summary for one audio file: the
// max-abs amplitude per bucket, normalized to [0, 1].
type Peaks struct {
	Values     []float64
	SampleRate int
	Duration   float64
}

// Extract decodes the WAV file at path and reduces it to peak
// buckets. Multi-channel audio is folded to mono by taking the loudest
// channel per frame.
func Extract(path string) (*Peaks, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("waveform: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("waveform: %s is not a valid wav file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("waveform: decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("waveform: %s: missing format info", path)
	}

	scale := float64(int(1) << (dec.BitDepth - 1))
	if scale <= 0 {
		scale = 1 << 15
	}
	return reduceBuffer(buf, scale), nil
}

// reduceBuffer folds a decoded PCM buffer into peak buckets: the
// loudest channel per frame, the loudest frame per bucket, normalized
// by scale (the full-scale sample value for the source bit depth).
func reduceBuffer(buf *audio.IntBuffer, scale float64) *Peaks {
	sr := buf.Format.SampleRate
	channels := buf.Format.NumChannels

	frames := len(buf.Data) / channels
	bucketFrames := sr / PeaksPerSecond
	if bucketFrames < 1 {
		bucketFrames = 1
	}

	values := make([]float64, 0, frames/bucketFrames+1)
	peak := 0.0
	inBucket := 0
	for fr := 0; fr < frames; fr++ {
		amp := 0.0
		for ch := 0; ch < channels; ch++ {
			v := math.Abs(float64(buf.Data[fr*channels+ch])) / scale
			if v > amp {
				amp = v
			}
		}
		if amp > 1 {
			amp = 1
		}
		if amp > peak {
			peak = amp
		}
		inBucket++
		if inBucket == bucketFrames {
			values = append(values, peak)
			peak = 0
			inBucket = 0
		}
	}
	if inBucket > 0 {
		values = append(values, peak)
	}

	return &Peaks{
		Values:     values,
		SampleRate: sr,
		Duration:   float64(frames) / float64(sr),
	}
}

// Window resamples the peaks covering [startTime, endTime) into cols
// columns for rendering, taking the max of each column's bucket range.
// Times outside the recorded range yield zero columns, so a track
// shorter than the timeline just renders silence past its end.
func (p *Peaks) Window(startTime, endTime float64, cols int) []float64 {
	out := make([]float64, cols)
	if cols <= 0 || endTime <= startTime || len(p.Values) == 0 {
		return out
	}
	perCol := (endTime - startTime) / float64(cols)
	for c := 0; c < cols; c++ {
		lo := int((startTime + float64(c)*perCol) * PeaksPerSecond)
		hi := int((startTime + float64(c+1)*perCol) * PeaksPerSecond)
		if hi == lo {
			hi = lo + 1
		}
		if lo < 0 {
			lo = 0
		}
		if hi > len(p.Values) {
			hi = len(p.Values)
		}
		for i := lo; i < hi; i++ {
			if p.Values[i] > out[c] {
				out[c] = p.Values[i]
			}
		}
	}
	return out
}
