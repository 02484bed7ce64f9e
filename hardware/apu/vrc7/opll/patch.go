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

package opll

// the built-in instruments of the VRC7. instrument zero is the custom
// instrument and is defined by registers $00 to $07
var vrc7Instruments = [15][8]uint8{
	{0x03, 0x21, 0x05, 0x06, 0xe8, 0x81, 0x42, 0x27},
	{0x13, 0x41, 0x14, 0x0d, 0xd8, 0xf6, 0x23, 0x12},
	{0x11, 0x11, 0x08, 0x08, 0xfa, 0xb2, 0x20, 0x12},
	{0x31, 0x61, 0x0c, 0x07, 0xa8, 0x64, 0x61, 0x27},
	{0x32, 0x21, 0x1e, 0x06, 0xe1, 0x76, 0x01, 0x28},
	{0x02, 0x01, 0x06, 0x00, 0xa3, 0xe2, 0xf4, 0xf4},
	{0x21, 0x61, 0x1d, 0x07, 0x82, 0x81, 0x11, 0x07},
	{0x23, 0x21, 0x22, 0x17, 0xa2, 0x72, 0x01, 0x17},
	{0x35, 0x11, 0x25, 0x00, 0x40, 0x73, 0x72, 0x01},
	{0xb5, 0x01, 0x0f, 0x0f, 0xa8, 0xa5, 0x51, 0x02},
	{0x17, 0xc1, 0x24, 0x07, 0xf8, 0xf8, 0x22, 0x12},
	{0x71, 0x23, 0x11, 0x06, 0x65, 0x74, 0x18, 0x16},
	{0x01, 0x02, 0xd3, 0x05, 0xc9, 0x95, 0x03, 0x02},
	{0x61, 0x63, 0x0c, 0x00, 0x94, 0xc0, 0x33, 0xf6},
	{0x21, 0x72, 0x0d, 0x00, 0xc1, 0xd5, 0x56, 0x06},
}

// the percussion instruments. bass drum, snare drum/hi-hat and tom-tom/cymbal
var rhythmInstruments = [3][8]uint8{
	{0x01, 0x01, 0x18, 0x0f, 0xdf, 0xf8, 0x6a, 0x6d},
	{0x01, 0x01, 0x00, 0x00, 0xc8, 0xd8, 0xa7, 0x68},
	{0x05, 0x01, 0x00, 0x00, 0xf8, 0xaa, 0x59, 0x55},
}

// operatorPatch is the decoded instrument data for one operator.
type operatorPatch struct {
	am   bool // tremolo
	pm   bool // vibrato
	eg   bool // sustained envelope
	ksr  bool // key scale rate
	mult int

	ksl int
	tl  int // modulator only
	fb  int // modulator only

	// half-wave rectified
	rectify bool

	ar int
	dr int
	sl int
	rr int
}

// patch is a decoded instrument. index zero is the modulator and index one
// is the carrier.
type patch [2]operatorPatch

func (p *patch) decode(data [8]uint8) {
	for i := range 2 {
		op := &p[i]
		op.am = data[i]&0x80 == 0x80
		op.pm = data[i]&0x40 == 0x40
		op.eg = data[i]&0x20 == 0x20
		op.ksr = data[i]&0x10 == 0x10
		op.mult = int(data[i] & 0x0f)
		op.ksl = int(data[2+i] >> 6)
		op.ar = int(data[4+i] >> 4)
		op.dr = int(data[4+i] & 0x0f)
		op.sl = int(data[6+i] >> 4)
		op.rr = int(data[6+i] & 0x0f)
	}

	p[0].tl = int(data[2] & 0x3f)
	p[0].fb = int(data[3] & 0x07)
	p[0].rectify = data[3]&0x08 == 0x08
	p[1].rectify = data[3]&0x10 == 0x10
}
