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

// Package wavwriter writes the output of the sound generator to disk as a
// mono WAV file. Unlike the audio devices in the output package, samples are
// streamed to the file as they arrive and the WAV header is completed when
// the WavWriter is closed.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/logger"
)

// Sentinal error patterns.
const (
	WavWriterError       = "wavwriter: %v"
	UnsupportedBitDepth  = "wavwriter: unsupported bit depth (%d)"
	UnsupportedFrequency = "wavwriter: unsupported sample rate (%d)"
)

// WAV files written by the package always have a single channel.
const numChannels = 1

// WavWriter writes 16 bit samples to a WAV file. The file is written with the
// bit depth given to New(). Samples are converted as required.
type WavWriter struct {
	filename string
	f        *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	bitDepth int

	// number of samples written to the file
	count int
}

// New is the preferred method of initialisation for the WavWriter type. The
// file is created immediately. Bit depth must be 8 or 16.
func New(filename string, sampleRate int, bitDepth int) (*WavWriter, error) {
	if bitDepth != 8 && bitDepth != 16 {
		return nil, curated.Errorf(UnsupportedBitDepth, bitDepth)
	}
	if sampleRate <= 0 {
		return nil, curated.Errorf(UnsupportedFrequency, sampleRate)
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, curated.Errorf(WavWriterError, err)
	}

	// audio format value of 1 is integer PCM
	aw := &WavWriter{
		filename: filename,
		f:        f,
		enc:      wav.NewEncoder(f, sampleRate, bitDepth, numChannels, 1),
		bitDepth: bitDepth,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChannels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", filename)

	return aw, nil
}

// Filename returns the name of the file being written to.
func (aw *WavWriter) Filename() string {
	return aw.filename
}

// Count returns the number of samples written so far.
func (aw *WavWriter) Count() int {
	return aw.count
}

// Write samples to the file.
func (aw *WavWriter) Write(samples []int16) error {
	if aw.enc == nil {
		return curated.Errorf(WavWriterError, "file is closed")
	}

	aw.buf.Data = aw.buf.Data[:0]
	for _, s := range samples {
		if aw.bitDepth == 8 {
			// 8 bit WAV data is unsigned
			aw.buf.Data = append(aw.buf.Data, int(s>>8)+128)
		} else {
			aw.buf.Data = append(aw.buf.Data, int(s))
		}
	}

	err := aw.enc.Write(aw.buf)
	if err != nil {
		return curated.Errorf(WavWriterError, err)
	}
	aw.count += len(samples)

	return nil
}

// Close completes the WAV header and closes the file. It is safe to call
// Close() more than once.
func (aw *WavWriter) Close() (rerr error) {
	if aw.enc == nil {
		return nil
	}

	defer func() {
		err := aw.f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf(WavWriterError, err)
		}
		aw.enc = nil
	}()

	err := aw.enc.Close()
	if err != nil {
		return curated.Errorf(WavWriterError, err)
	}

	logger.Logf(logger.Allow, "wavwriter", "%d samples written to %s", aw.count, aw.filename)

	return nil
}
