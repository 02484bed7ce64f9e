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

package channels

// vrc6Pulse is the Variant for the two pulse channels of the VRC6. The duty
// is in the range 0 to 7.
type vrc6Pulse struct {
	*Handler
	base uint16
}

func newVRC6Pulse(id ID, writer ChipWriter) *vrc6Pulse {
	c := &vrc6Pulse{
		base: 0x9000 + uint16(id.Subindex)*0x1000,
	}
	c.Handler = newHandler(id, writer, c, 0xfff, 15)
	c.tables = &pulseTable
	return c
}

// RefreshChannel implements the Variant interface.
func (c *vrc6Pulse) RefreshChannel() {
	period := c.variant.CalculatePeriod()
	volume := c.variant.CalculateVolume()
	c.takePatch()

	if !c.gate {
		c.write(c.base+2, 0x00)
		return
	}

	c.write(c.base, uint8(c.duty&0x07)<<4|uint8(volume))
	c.write(c.base+1, uint8(period&0xff))
	c.write(c.base+2, 0x80|uint8((period>>8)&0x0f))

	if c.command == CmdTrigger {
		c.command = CmdOn
	}
}

// ClearRegisters implements the Variant interface.
func (c *vrc6Pulse) ClearRegisters() {
	c.write(c.base, 0x00)
	c.write(c.base+1, 0x00)
	c.write(c.base+2, 0x00)
}

// vrc6Sawtooth is the Variant for the sawtooth channel of the VRC6. The
// volume of the channel sets the rate of the accumulator. Bit 0 of the duty
// doubles the range of the rate, which can cause the accumulator to overflow.
type vrc6Sawtooth struct {
	*Handler
}

func newVRC6Sawtooth(id ID, writer ChipWriter) *vrc6Sawtooth {
	c := &vrc6Sawtooth{}
	c.Handler = newHandler(id, writer, c, 0xfff, 15)
	c.tables = &sawTable
	return c
}

// RefreshChannel implements the Variant interface.
func (c *vrc6Sawtooth) RefreshChannel() {
	period := c.variant.CalculatePeriod()
	volume := c.variant.CalculateVolume()
	c.takePatch()

	if !c.gate {
		c.write(0xb002, 0x00)
		return
	}

	rate := uint8(volume<<1) | uint8(c.duty&0x01)<<5
	c.write(0xb000, rate&0x3f)
	c.write(0xb001, uint8(period&0xff))
	c.write(0xb002, 0x80|uint8((period>>8)&0x0f))

	if c.command == CmdTrigger {
		c.command = CmdOn
	}
}

// ClearRegisters implements the Variant interface.
func (c *vrc6Sawtooth) ClearRegisters() {
	c.write(0xb000, 0x00)
	c.write(0xb001, 0x00)
	c.write(0xb002, 0x00)
}
