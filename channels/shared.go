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

// bits of the VRC7 percussion mode byte
const (
	PercussionOn  = 0x20
	PercussionBD  = 0x10
	PercussionSD  = 0x08
	PercussionTOM = 0x04
	PercussionCY  = 0x02
	PercussionHH  = 0x01
	percussionKey = 0x1f
)

// NumPatchRegs is the number of registers in the VRC7 custom patch.
const NumPatchRegs = 8

// SharedState is the state of a chip that is shared between all channels of
// the chip. It is owned by the ChipHandler and given to each channel by
// pointer.
type SharedState struct {
	// VRC7 percussion mode. PercussionOn enables the mode and the lower five
	// bits are the drum keys
	PercMode     uint8
	PercModePrev uint8

	// VRC7 drum volumes in the format of registers $36, $37 and $38
	PercVolumeBD    uint8
	PercVolumeSDHH  uint8
	PercVolumeTOMCY uint8

	// VRC7 custom patch. the patch is written in full when patchUpdate is
	// true. otherwise only the registers in the patchDirty mask are written
	patchRegs   [NumPatchRegs]uint8
	patchDirty  uint8
	patchUpdate bool

	// Sunsoft 5B registers shared by the three channels
	s5bNoise      uint8
	s5bNoiseDirty bool
	s5bMixer      uint8
	s5bEnvPeriod  uint16
	s5bEnvDirty   bool
	s5bEnvShape   uint8
	s5bEnvTrigger bool
}

func newSharedState() *SharedState {
	s := &SharedState{}
	s.reset()
	return s
}

func (s *SharedState) reset() {
	s.PercMode = 0
	s.PercModePrev = 0
	s.PercVolumeBD = 15
	s.PercVolumeSDHH = 15
	s.PercVolumeTOMCY = 15
	s.patchRegs = [NumPatchRegs]uint8{}
	s.patchDirty = 0
	s.patchUpdate = false
	s.s5bNoise = 0
	s.s5bNoiseDirty = true
	s.s5bMixer = 0x3f
	s.s5bEnvPeriod = 0
	s.s5bEnvDirty = true
	s.s5bEnvShape = 0
	s.s5bEnvTrigger = false
}

// QueuePatchReg buffers a value for a register of the custom patch. The
// register is written at the end of the tick.
func (s *SharedState) QueuePatchReg(reg int, v uint8) {
	reg &= NumPatchRegs - 1
	s.patchRegs[reg] = v
	s.patchDirty |= 1 << reg
}

// PatchReg returns the buffered value of a custom patch register.
func (s *SharedState) PatchReg(reg int) uint8 {
	return s.patchRegs[reg&(NumPatchRegs-1)]
}

// RequestPatchUpdate requests that the whole custom patch is written at the
// end of the tick.
func (s *SharedState) RequestPatchUpdate() {
	s.patchUpdate = true
}

// PercussionEnabled returns true if the VRC7 percussion mode is on.
func (s *SharedState) PercussionEnabled() bool {
	return s.PercMode&PercussionOn == PercussionOn
}
