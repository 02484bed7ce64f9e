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

import (
	"github.com/jetsetilly/famitone/hardware/chips"
)

// VolumeShift is the number of bits of sub-step resolution in the volume of
// a channel. The volume column of a Note is shifted by this amount.
const VolumeShift = 3

// VolumeMax is the maximum volume of a channel, including the sub-step bits.
const VolumeMax = 0x7f

// the centre value of the fine pitch effect
const finePitchCentre = 0x80

// Variant is implemented by every type of channel. A Handler calls these
// functions through the variant so that a chip specific implementation is
// used when there is one.
//
// A variant embeds a *Handler, which provides default implementations for
// most of the functions. TriggerNote(), RefreshChannel() and ClearRegisters()
// are always provided by the variant.
type Variant interface {
	// HandleNoteData is called once for every row of the pattern that has
	// data for the channel
	HandleNoteData(n Note)

	// HandleNote is called for a new note. RunNote() is called by HandleNote()
	HandleNote(note int)
	RunNote(note int)

	// TriggerNote returns the period of the note
	TriggerNote(note int) int

	// HandleEffect returns false if the effect was not recognised
	HandleEffect(cmd EffectCmd) bool

	HandleCut()
	HandleRelease()

	// SetupSlide is called when a note slide (Qxy or Rxy) begins
	SetupSlide()

	CalculatePeriod() int
	CalculateVolume() int

	// RefreshChannel writes the registers for the current state of the
	// channel. Called once per tick
	RefreshChannel()

	// ClearRegisters silences the channel
	ClearRegisters()
}

// Handler implements the state and the effect pipeline common to all
// channels.
type Handler struct {
	id      ID
	writer  ChipWriter
	variant Variant

	maxPeriod int
	maxVolume int

	// if inverted is true then a larger period is a higher pitch
	inverted bool

	linearPitch bool

	// channels that are not tuned to a note ignore the linear pitch setting
	fixedPitch bool

	// period tables for NTSC and PAL. the table in use is selected by
	// SetMachine(). the table is nil for channels that do not use a period
	// table
	tables *[2][NumNotes]int
	table  []int

	note    int
	echo    int
	keyNote int
	octave  int

	// the octave of the period when the VRC7 corrects the period during
	// portamento
	oldOctave int

	period     int
	portaTo    int
	portaSpeed int

	// the pitch effect that is currently running. one of EffArpeggio,
	// EffPortamento, EffPortaUp, EffPortaDown, EffSlideUp, EffSlideDown or
	// EffNone
	effect      Effect
	effectParam uint8
	arpState    int

	// note slides are set up after the note of the row has been handled
	slide *EffectCmd

	vibratoDepth int
	vibratoSpeed int
	vibratoPhase int
	tremoloDepth int
	tremoloSpeed int
	tremoloPhase int
	finePitch    int

	// pitch offset set by an instrument. applied in the same direction as the
	// fine pitch
	pitch int

	volume      int
	volSlide    uint8
	volumeDelay int
	newVolume   int

	noteCut     int
	noteRelease int

	transposeDelay  int
	transposeAmount int

	gate    bool
	hold    bool
	release bool
	command Command

	// the duty cycle or patch in use. a new value is held in patch until the
	// next refresh
	duty  int
	patch int
}

func newHandler(id ID, writer ChipWriter, variant Variant, maxPeriod int, maxVolume int) *Handler {
	h := &Handler{
		id:        id,
		writer:    writer,
		variant:   variant,
		maxPeriod: maxPeriod,
		maxVolume: maxVolume,
	}
	h.resetState()
	return h
}

func (h *Handler) resetState() {
	h.note = NoteNone
	h.echo = NoteNone
	h.keyNote = NoteNone
	h.octave = -1
	h.oldOctave = -1
	h.period = 0
	h.portaTo = 0
	h.portaSpeed = 0
	h.effect = EffNone
	h.effectParam = 0
	h.arpState = 0
	h.slide = nil
	h.vibratoDepth = 0
	h.vibratoSpeed = 0
	h.vibratoPhase = 0
	h.tremoloDepth = 0
	h.tremoloSpeed = 0
	h.tremoloPhase = 0
	h.finePitch = finePitchCentre
	h.pitch = 0
	h.volume = VolumeMax
	h.volSlide = 0
	h.volumeDelay = 0
	h.newVolume = 0
	h.noteCut = 0
	h.noteRelease = 0
	h.transposeDelay = 0
	h.transposeAmount = 0
	h.gate = false
	h.hold = false
	h.release = false
	h.command = CmdHalt
	h.duty = 0
	h.patch = PatchNone
}

// ID returns the identity of the channel.
func (h *Handler) ID() ID {
	return h.id
}

// SetMachine selects the period table for the machine.
func (h *Handler) SetMachine(m chips.Machine) {
	if h.tables != nil {
		h.table = h.tables[machineIndex(m)][:]
	}
}

// SetLinearPitch sets the pitch mode of the channel. In linear pitch mode the
// period of the channel is a note number with linearPitchAmount bits of
// sub-note resolution.
func (h *Handler) SetLinearPitch(linear bool) {
	h.linearPitch = linear && !h.fixedPitch
}

// Command returns the state of the note being played.
func (h *Handler) Command() Command {
	return h.command
}

// Gate returns true if a note is playing.
func (h *Handler) Gate() bool {
	return h.gate
}

// Note returns the note that is sounding or NoteNone if no note is sounding.
func (h *Handler) Note() int {
	return h.keyNote
}

// Period returns the period before any effects are applied.
func (h *Handler) Period() int {
	return h.period
}

// PortaTo returns the target period of the portamento effect.
func (h *Handler) PortaTo() int {
	return h.portaTo
}

// Octave returns the octave of the last triggered note.
func (h *Handler) Octave() int {
	return h.octave
}

// Volume returns the output volume of the channel.
func (h *Handler) Volume() int {
	return h.variant.CalculateVolume()
}

// Duty returns the duty cycle or patch of the channel.
func (h *Handler) Duty() int {
	return h.duty
}

// SetPitch sets the pitch offset of the channel. The offset is used with the
// vibrato and fine pitch when the period is calculated. It is zero until set
// and is cleared by Reset().
func (h *Handler) SetPitch(pitch int) {
	h.pitch = pitch
}

// PlayNote handles the data in a row of the pattern.
func (h *Handler) PlayNote(n Note) {
	h.variant.HandleNoteData(n)
}

// Refresh writes the registers for the channel.
func (h *Handler) Refresh() {
	h.variant.RefreshChannel()
}

// Reset returns the channel to its initial state and silences it.
func (h *Handler) Reset() {
	h.resetState()
	h.variant.ClearRegisters()
}

// HandleNoteData implements the Variant interface.
func (h *Handler) HandleNoteData(n Note) {
	if n.Note != NoteNone && n.Note != NoteRelease {
		h.noteCut = 0
		h.noteRelease = 0
		h.transposeDelay = 0
	}

	for _, e := range n.Effects {
		if e.Effect == EffNone || e.Effect.IsGlobal() {
			continue
		}
		h.variant.HandleEffect(e)
	}

	if n.Patch >= 0 {
		h.patch = n.Patch
	}

	if n.Vol >= 0 && n.Vol < VolNone {
		h.volume = n.Vol << VolumeShift
	}

	switch n.Note {
	case NoteNone:
	case NoteHalt:
		h.variant.HandleCut()
	case NoteRelease:
		h.variant.HandleRelease()
	case NoteEcho:
		if h.echo != NoteNone {
			h.variant.HandleNote(h.echo)
		}
	default:
		if n.Note >= 0 && n.Note < NumNotes {
			if h.note != NoteNone {
				h.echo = h.note
			}
			h.variant.HandleNote(n.Note)
		}
	}

	if h.slide != nil {
		h.setupSlide(*h.slide)
		h.slide = nil
	}
}

// HandleNote implements the Variant interface.
func (h *Handler) HandleNote(note int) {
	h.note = note
	h.release = false
	h.arpState = 0
	if h.effect == EffSlideUp || h.effect == EffSlideDown {
		h.effect = EffNone
	}
	h.variant.RunNote(note)
}

// RunNote implements the Variant interface.
func (h *Handler) RunNote(note int) {
	freq := h.variant.TriggerNote(note)

	if h.portaSpeed > 0 && h.effect == EffPortamento && h.gate {
		if h.period == 0 {
			h.period = freq
		}
		h.portaTo = freq
	} else {
		h.period = freq
		h.portaTo = 0
		h.command = CmdTrigger
	}

	h.gate = true
}

// TriggerNote is the default implementation of the TriggerNote function of the
// Variant interface. It returns the period of the note from the period table.
func (h *Handler) TriggerNote(note int) int {
	h.keyNote = note
	h.octave = note / 12
	if h.linearPitch || h.table == nil {
		return note << linearPitchAmount
	}
	return h.table[note]
}

// HandleEffect implements the Variant interface.
func (h *Handler) HandleEffect(cmd EffectCmd) bool {
	p := cmd.Param

	switch cmd.Effect {
	case EffArpeggio:
		h.effectParam = p
		if p == 0 {
			if h.effect == EffArpeggio {
				h.effect = EffNone
			}
		} else {
			h.effect = EffArpeggio
		}

	case EffPortamento:
		h.portaSpeed = int(p)
		if p == 0 {
			h.portaTo = 0
		}
		h.effect = EffPortamento

	case EffPortaUp, EffPortaDown:
		h.portaSpeed = int(p)
		if p == 0 {
			h.effect = EffNone
		} else {
			h.effect = cmd.Effect
		}

	case EffVibrato:
		h.vibratoSpeed = int(p >> 4)
		h.vibratoDepth = int(p & 0x0f)
		if h.vibratoSpeed == 0 {
			h.vibratoPhase = 0
		}

	case EffTremolo:
		h.tremoloSpeed = int(p >> 4)
		h.tremoloDepth = int(p & 0x0f)
		if h.tremoloSpeed == 0 {
			h.tremoloPhase = 0
		}

	case EffPitch:
		h.finePitch = int(p)

	case EffVolumeSlide:
		h.volSlide = p

	case EffNoteCut:
		h.noteCut = int(p) + 1

	case EffNoteRelease:
		h.noteRelease = int(p) + 1

	case EffSlideUp, EffSlideDown:
		h.slide = &cmd

	case EffTranspose:
		h.transposeDelay = int((p>>4)&0x07) + 1
		h.transposeAmount = int(p & 0x0f)
		if p&0x80 == 0x80 {
			h.transposeAmount = -h.transposeAmount
		}

	case EffDelayedVolume:
		h.volumeDelay = int(p>>4) + 1
		h.newVolume = int(p&0x0f) << VolumeShift

	case EffDutyCycle:
		h.patch = int(p)

	default:
		return false
	}

	return true
}

func (h *Handler) setupSlide(cmd EffectCmd) {
	if h.note == NoteNone {
		return
	}

	h.portaSpeed = int(cmd.Param>>4)*2 + 1

	n := int(cmd.Param & 0x0f)
	if cmd.Effect == EffSlideDown {
		n = -n
	}
	h.note = clampNote(h.note + n)
	h.effect = cmd.Effect

	h.variant.SetupSlide()
}

// SetupSlide implements the Variant interface.
func (h *Handler) SetupSlide() {
	h.portaTo = h.variant.TriggerNote(h.note)
}

// HandleCut implements the Variant interface.
func (h *Handler) HandleCut() {
	h.keyNote = NoteNone
	h.gate = false
	h.command = CmdHalt
}

// HandleRelease implements the Variant interface.
func (h *Handler) HandleRelease() {
	if !h.release {
		h.release = true
		h.command = CmdRelease
	}
}

// CalculateVolume implements the Variant interface.
func (h *Handler) CalculateVolume() int {
	v := (h.volume >> VolumeShift) - h.tremolo()
	return min(h.maxVolume, max(0, v))
}

// CalculatePeriod implements the Variant interface.
func (h *Handler) CalculatePeriod() int {
	detune := h.vibrato() - h.finePitchOffset() - h.pitch

	if h.linearPitch && h.table != nil {
		p := min((NumNotes-1)<<linearPitchAmount, max(0, h.period+detune))
		note := p >> linearPitchAmount
		sub := p & ((1 << linearPitchAmount) - 1)
		period := h.table[note]
		if sub > 0 && note < NumNotes-1 {
			period += (h.table[note+1] - period) * sub >> linearPitchAmount
		}
		return h.limitPeriod(period)
	}

	if h.inverted {
		return h.limitPeriod(h.period + detune)
	}
	return h.limitPeriod(h.period - detune)
}

// ProcessChannel runs the effects of the channel. Called once per tick.
func (h *Handler) ProcessChannel() {
	if h.noteCut > 0 {
		h.noteCut--
		if h.noteCut == 0 {
			h.variant.HandleCut()
		}
	}

	if h.noteRelease > 0 {
		h.noteRelease--
		if h.noteRelease == 0 {
			h.variant.HandleRelease()
		}
	}

	if h.transposeDelay > 0 {
		h.transposeDelay--
		if h.transposeDelay == 0 && h.note != NoteNone {
			h.note = clampNote(h.note + h.transposeAmount)
			h.period = h.variant.TriggerNote(h.note)
		}
	}

	if h.volumeDelay > 0 {
		h.volumeDelay--
		if h.volumeDelay == 0 {
			h.volume = h.newVolume
		}
	}

	h.updatePitch()
	h.updateVolumeSlide()

	h.vibratoPhase = (h.vibratoPhase + h.vibratoSpeed) & 0x3f
	h.tremoloPhase = (h.tremoloPhase + h.tremoloSpeed) & 0x3f
}

func (h *Handler) updatePitch() {
	switch h.effect {
	case EffArpeggio:
		if h.note == NoteNone || !h.gate {
			return
		}
		switch h.arpState {
		case 0:
			h.period = h.variant.TriggerNote(h.note)
		case 1:
			h.period = h.variant.TriggerNote(clampNote(h.note + int(h.effectParam>>4)))
			if h.effectParam&0x0f == 0 {
				h.arpState++
			}
		case 2:
			h.period = h.variant.TriggerNote(clampNote(h.note + int(h.effectParam&0x0f)))
		}
		h.arpState = (h.arpState + 1) % 3

	case EffPortamento:
		if h.portaSpeed > 0 && h.portaTo > 0 {
			h.period = approach(h.period, h.portaTo, h.portaSpeed)
		}

	case EffPortaUp:
		h.pitchUp(h.portaSpeed)

	case EffPortaDown:
		h.pitchDown(h.portaSpeed)

	case EffSlideUp, EffSlideDown:
		h.period = approach(h.period, h.portaTo, h.portaSpeed)
		if h.period == h.portaTo {
			h.effect = EffNone
		}
	}
}

func (h *Handler) updateVolumeSlide() {
	switch {
	case h.volSlide&0x0f != 0:
		h.volume = max(0, h.volume-int(h.volSlide&0x0f))
	case h.volSlide&0xf0 != 0:
		h.volume = min(VolumeMax, h.volume+int(h.volSlide>>4))
	}
}

// the period grows with the pitch when the handler is inverted or when linear
// pitch is being used
func (h *Handler) ascending() bool {
	return h.inverted || h.linearPitch
}

func (h *Handler) pitchUp(amount int) {
	if h.ascending() {
		h.period = h.limitPeriod(h.period + amount)
	} else {
		h.period = h.limitPeriod(h.period - amount)
	}
}

func (h *Handler) pitchDown(amount int) {
	if h.ascending() {
		h.period = h.limitPeriod(h.period - amount)
	} else {
		h.period = h.limitPeriod(h.period + amount)
	}
}

func (h *Handler) limitPeriod(p int) int {
	if h.linearPitch {
		return min((NumNotes-1)<<linearPitchAmount, max(0, p))
	}
	return min(h.maxPeriod, max(0, p))
}

func (h *Handler) vibrato() int {
	if h.vibratoSpeed == 0 {
		return 0
	}
	return vibratoValue(h.vibratoDepth, h.vibratoPhase)
}

func (h *Handler) tremolo() int {
	if h.tremoloSpeed == 0 {
		return 0
	}
	return vibratoValue(h.tremoloDepth, (h.tremoloPhase>>1)&0x1f) >> 1
}

func (h *Handler) finePitchOffset() int {
	return finePitchCentre - h.finePitch
}

// takePatch moves a new duty cycle or patch into use.
func (h *Handler) takePatch() {
	if h.patch != PatchNone {
		h.duty = h.patch
		h.patch = PatchNone
	}
}

func (h *Handler) write(addr uint16, v uint8) {
	h.writer.Write(addr, v)
}

func approach(v int, target int, speed int) int {
	if v < target {
		return min(target, v+speed)
	}
	return max(target, v-speed)
}

func clampNote(n int) int {
	return min(NumNotes-1, max(0, n))
}
