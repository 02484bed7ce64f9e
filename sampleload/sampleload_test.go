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

package sampleload_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/sampleload"
	"github.com/jetsetilly/famitone/test"
	"github.com/jetsetilly/famitone/wavwriter"
)

func TestEncode(t *testing.T) {
	// a signal at the middle of the range alternates the delta counter
	silence := make([]float32, 64)
	data := sampleload.Encode(silence, 1000, 1000)
	test.DemandEquality(t, len(data), 17)
	test.ExpectEquality(t, data[0], uint8(0xaa))
	test.ExpectEquality(t, data[7], uint8(0xaa))

	// padding
	test.ExpectEquality(t, data[8], uint8(0x55))

	// a full scale signal sets every bit
	loud := make([]float32, 64)
	for i := range loud {
		loud[i] = 1.0
	}
	data = sampleload.Encode(loud, 1000, 1000)
	test.ExpectEquality(t, data[0], uint8(0xff))
	test.ExpectEquality(t, data[7], uint8(0xff))

	// resampling. the DMC rate is half the sample rate so the number of bits
	// is halved
	data = sampleload.Encode(make([]float32, 256), 2000, 1000)
	test.ExpectEquality(t, len(data), 17)

	// sample size is limited
	data = sampleload.Encode(make([]float32, 100000), 1000, 1000)
	test.ExpectEquality(t, len(data), sampleload.MaxSize)

	// invalid rates
	data = sampleload.Encode(silence, 0, 1000)
	test.ExpectEquality(t, len(data), 1)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	// dmc files are loaded as they are
	dmc := filepath.Join(dir, "kick.dmc")
	test.DemandSuccess(t, os.WriteFile(dmc, []uint8{1, 2, 3}, 0o644))
	data, err := sampleload.Load(dmc, chips.NTSC, 15)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(data), 3)

	empty := filepath.Join(dir, "empty.dmc")
	test.DemandSuccess(t, os.WriteFile(empty, nil, 0o644))
	_, err = sampleload.Load(empty, chips.NTSC, 15)
	test.ExpectSuccess(t, curated.Is(err, sampleload.EmptySample))

	// wav files are converted
	wav := filepath.Join(dir, "snare.wav")
	aw, err := wavwriter.New(wav, 33144, 16)
	test.DemandSuccess(t, err)
	samples := make([]int16, 2048)
	for i := range samples {
		if i&32 == 0 {
			samples[i] = 16000
		} else {
			samples[i] = -16000
		}
	}
	test.DemandSuccess(t, aw.Write(samples))
	test.DemandSuccess(t, aw.Close())

	data, err = sampleload.Load(wav, chips.NTSC, 15)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(data)%16, 1)

	// 2048 samples at very nearly the rate of DMC pitch 15 is 256 bytes
	test.ExpectEquality(t, len(data), 257)

	_, err = sampleload.Load(filepath.Join(dir, "sample.ogg"), chips.NTSC, 15)
	test.ExpectFailure(t, err)

	txt := filepath.Join(dir, "sample.txt")
	test.DemandSuccess(t, os.WriteFile(txt, []uint8("hello"), 0o644))
	_, err = sampleload.Load(txt, chips.NTSC, 15)
	test.ExpectSuccess(t, curated.Is(err, sampleload.UnsupportedFormat))
}
