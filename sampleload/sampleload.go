// This file is part of Famitone.
//
// Famitone is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Famitone is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Famitone.  If not, see <https://www.gnu.org/licenses/>.

// Package sampleload loads DPCM sample data for the 2A03. Samples can be
// loaded directly from a .dmc file or converted from a .wav or .mp3 file.
//
// Converted samples are encoded at the DMC rate of the pitch given to Load().
// Playing the sample at that pitch will therefore reproduce the original
// sound at the original speed.
package sampleload

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/logger"
)

// Sentinal error patterns.
const (
	LoadError         = "sampleload: %v"
	UnsupportedFormat = "sampleload: unsupported format (%s)"
	EmptySample       = "sampleload: sample is empty"
)

// MaxSize is the largest sample that can be played by the DMC.
const MaxSize = 0xff*16 + 1

// the value of a byte used to pad the end of a sample. alternating bits leave
// the delta counter unchanged
const padding = 0x55

// pcm data is mono with values in the range -1.0 to 1.0
type pcmData struct {
	sampleRate float64
	data       []float32
}

// Load sample data from a file. The machine and pitch are used to convert
// .wav and .mp3 files. The pitch is ignored for .dmc files.
func Load(filename string, machine chips.Machine, pitch int) ([]uint8, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(LoadError, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(filename))

	var p pcmData
	switch ext {
	case ".dmc":
		data, err := io.ReadAll(io.LimitReader(f, MaxSize))
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		if len(data) == 0 {
			return nil, curated.Errorf(EmptySample)
		}
		logger.Logf(logger.Allow, "sampleload", "%d bytes loaded from dmc file", len(data))
		return data, nil

	case ".wav":
		p, err = decodeWAV(f)
	case ".mp3":
		p, err = decodeMP3(f)
	default:
		return nil, curated.Errorf(UnsupportedFormat, ext)
	}

	if err != nil {
		return nil, curated.Errorf(LoadError, err)
	}
	if len(p.data) == 0 {
		return nil, curated.Errorf(EmptySample)
	}

	logger.Logf(logger.Allow, "sampleload", "sample rate: %0.2fHz", p.sampleRate)
	logger.Logf(logger.Allow, "sampleload", "total time: %.02fs", float64(len(p.data))/p.sampleRate)

	data := Encode(p.data, p.sampleRate, nes2a03.DMCRate(machine, pitch))

	logger.Logf(logger.Allow, "sampleload", "encoded to %d bytes", len(data))

	return data, nil
}

func decodeWAV(r io.ReadSeeker) (pcmData, error) {
	var p pcmData

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return p, curated.Errorf("wav: not a valid wav file")
	}

	// load all data at once
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return p, curated.Errorf("wav: %v", err)
	}
	floatBuf := buf.AsFloat32Buffer()

	// FullPCMBuffer() leaves values in the range of the source bit depth
	scale := float32(int(1) << (max(1, int(dec.BitDepth)) - 1))
	if dec.BitDepth == 8 {
		// 8 bit wav data is unsigned
		for i := range floatBuf.Data {
			floatBuf.Data[i] -= 128
		}
	}

	// copy first channel only of data stream
	chans := max(1, int(dec.NumChans))
	p.data = make([]float32, 0, len(floatBuf.Data)/chans)
	for i := 0; i < len(floatBuf.Data); i += chans {
		p.data = append(p.data, floatBuf.Data[i]/scale)
	}
	p.sampleRate = float64(dec.SampleRate)

	return p, nil
}

func decodeMP3(r io.Reader) (pcmData, error) {
	var p pcmData

	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return p, curated.Errorf("mp3: %v", err)
	}

	// the decoded stream is always 16bit little endian stereo. we only want
	// the left channel
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 4 {
			v := int16(binary.LittleEndian.Uint16(chunk[i:]))
			p.data = append(p.data, float32(v)/32768)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return p, curated.Errorf("mp3: %v", err)
		}
	}
	p.sampleRate = float64(dec.SampleRate())

	return p, nil
}

// Encode PCM data as DPCM. The PCM values should be in the range -1.0 to 1.0
// and are resampled from the sample rate to the DMC rate. The length of the
// encoded data is always a multiple of 16 plus one, to a maximum of MaxSize.
func Encode(pcm []float32, sampleRate float64, dmcRate float64) []uint8 {
	var out []uint8
	if sampleRate <= 0 || dmcRate <= 0 {
		return []uint8{padding}
	}

	step := sampleRate / dmcRate

	// the DMC output level starts in the middle of the range
	delta := 64

	var b uint8
	var bit int
	for pos := 0.0; int(pos) < len(pcm) && len(out) < MaxSize; pos += step {
		v := max(-1.0, min(1.0, pcm[int(pos)]))
		target := int((v + 1.0) * 63.5)

		if target > delta {
			b |= 1 << bit
			if delta <= 125 {
				delta += 2
			}
		} else if delta >= 2 {
			delta -= 2
		}

		bit++
		if bit == 8 {
			out = append(out, b)
			b = 0
			bit = 0
		}
	}
	if bit > 0 && len(out) < MaxSize {
		out = append(out, b)
	}

	for len(out)%16 != 1 {
		out = append(out, padding)
	}
	return out[:min(len(out), MaxSize)]
}
