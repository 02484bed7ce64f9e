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

// Package script builds a player.Module by running a Lua script. The script
// describes the module with the following functions:
//
//	module { chips = "2A03,VRC7", machine = "NTSC", rate = 0, linear = false, split = 32 }
//	patch { 0x03, 0x21, 0x04, 0x06, 0x8d, 0xf2, 0x42, 0x17 }
//	sample { note = 36, file = "kick.dmc", pitch = 15, loop = false, delta = -1 }
//	g = groove { 6, 8 }
//	s = song { title = "intro", speed = 6, tempo = 150, rows = 64, groove = g }
//	frame(s, { 0, 0, 1 })
//	row(s, "PU1", 0, 0, "C-4 00 F F06")
//	names = channels()
//
// The module() function must be called before any other function, if it is
// called at all. Without it, the module uses the 2A03 only.
//
// Channels are identified by their index in the channel order of the module,
// starting at zero, or by their short name. Songs, grooves and patterns are
// also numbered from zero.
//
// Only the base, table, string and math Lua libraries are available to a
// script.
package script

import (
	"path/filepath"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/logger"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/sampleload"
	lua "github.com/yuin/gopher-lua"
)

// Sentinal error patterns.
const (
	ScriptError = "script: %v"
)

// the state of a running script
type script struct {
	L   *lua.LState
	dir string

	module *player.Module

	// true once any function other than module() has been called
	started bool

	// number of songs defined by the script. the first song of the module is
	// created automatically
	songs int

	// number of frames defined for each song
	frames map[int]int
}

// Load runs the script in the named file and returns the module it
// describes. Sample files are loaded relative to the directory of the
// script.
func Load(filename string) (*player.Module, error) {
	s := newScript(filepath.Dir(filename))
	defer s.L.Close()

	if err := s.L.DoFile(filename); err != nil {
		return nil, curated.Errorf(ScriptError, err)
	}

	logger.Logf(logger.Allow, "script", "%s: %d songs, %d channels", filepath.Base(filename),
		len(s.module.Songs), len(s.module.Channels()))

	return s.module, nil
}

// Run is the same as Load() except that the script is supplied as a string.
func Run(source string, dir string) (*player.Module, error) {
	s := newScript(dir)
	defer s.L.Close()

	if err := s.L.DoString(source); err != nil {
		return nil, curated.Errorf(ScriptError, err)
	}

	return s.module, nil
}

func newScript(dir string) *script {
	s := &script{
		L:      lua.NewState(lua.Options{SkipOpenLibs: true}),
		dir:    dir,
		module: player.NewModule(chips.NewSet(chips.APU)),
		frames: make(map[int]int),
	}

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		s.L.Push(s.L.NewFunction(lib.fn))
		s.L.Push(lua.LString(lib.name))
		s.L.Call(1, 0)
	}

	s.L.SetGlobal("module", s.L.NewFunction(s.luaModule))
	s.L.SetGlobal("patch", s.L.NewFunction(s.luaPatch))
	s.L.SetGlobal("sample", s.L.NewFunction(s.luaSample))
	s.L.SetGlobal("groove", s.L.NewFunction(s.luaGroove))
	s.L.SetGlobal("song", s.L.NewFunction(s.luaSong))
	s.L.SetGlobal("frame", s.L.NewFunction(s.luaFrame))
	s.L.SetGlobal("row", s.L.NewFunction(s.luaRow))
	s.L.SetGlobal("channels", s.L.NewFunction(s.luaChannels))

	return s
}

// helpers for reading optional fields from a table
func fieldString(tbl *lua.LTable, key string, def string) string {
	if v, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return def
}

func fieldInt(tbl *lua.LTable, key string, def int) int {
	if v, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(v)
	}
	return def
}

func fieldBool(tbl *lua.LTable, key string, def bool) bool {
	if v, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(v)
	}
	return def
}

// the array part of a table as a list of integers
func intList(L *lua.LState, n int) []int {
	tbl := L.CheckTable(n)
	l := make([]int, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		v, ok := tbl.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.ArgError(n, "table must contain only numbers")
		}
		l = append(l, int(v))
	}
	return l
}

// module { chips, machine, rate, linear, split }
func (s *script) luaModule(L *lua.LState) int {
	if s.started {
		L.RaiseError("module() must be called before any other function")
	}
	s.started = true

	tbl := L.CheckTable(1)

	set, err := chips.ParseSet(fieldString(tbl, "chips", "2A03"))
	if err != nil {
		L.RaiseError("%v", err)
	}

	machine, err := chips.ParseMachine(fieldString(tbl, "machine", "NTSC"))
	if err != nil {
		L.RaiseError("%v", err)
	}

	s.module = player.NewModule(set)
	s.module.Machine = machine
	s.module.Rate = max(0, fieldInt(tbl, "rate", 0))
	s.module.LinearPitch = fieldBool(tbl, "linear", false)
	s.module.SpeedSplit = fieldInt(tbl, "split", player.DefaultSpeedSplit)

	return 0
}

// patch { r0, r1, r2, r3, r4, r5, r6, r7 }
func (s *script) luaPatch(L *lua.LState) int {
	s.started = true

	regs := intList(L, 1)
	if len(regs) != channels.NumPatchRegs {
		L.ArgError(1, "patch must have exactly eight values")
	}
	for i, v := range regs {
		s.module.VRC7Patch[i] = uint8(v)
	}

	return 0
}

// sample { note, file, pitch, loop, delta }
func (s *script) luaSample(L *lua.LState) int {
	s.started = true

	tbl := L.CheckTable(1)

	note := fieldInt(tbl, "note", -1)
	if note < 0 || note >= channels.NumNotes {
		L.ArgError(1, "sample note is missing or invalid")
	}

	file := fieldString(tbl, "file", "")
	if file == "" {
		L.ArgError(1, "sample file is missing")
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(s.dir, file)
	}

	pitch := fieldInt(tbl, "pitch", 15) & 0x0f

	data, err := sampleload.Load(file, s.module.Machine, pitch)
	if err != nil {
		L.RaiseError("%v", err)
	}

	s.module.Samples[note] = channels.Sample{
		Data:  data,
		Pitch: uint8(pitch),
		Loop:  fieldBool(tbl, "loop", false),
		Delta: fieldInt(tbl, "delta", -1),
	}

	return 0
}

// groove { speeds... } returns the groove index
func (s *script) luaGroove(L *lua.LState) int {
	s.started = true

	g := intList(L, 1)
	if len(g) == 0 {
		L.ArgError(1, "groove cannot be empty")
	}
	for _, v := range g {
		if v < 1 {
			L.ArgError(1, "groove entries must be greater than zero")
		}
	}

	s.module.Grooves = append(s.module.Grooves, g)
	L.Push(lua.LNumber(len(s.module.Grooves) - 1))
	return 1
}

// song { title, speed, tempo, rows, groove } returns the song index
func (s *script) luaSong(L *lua.LState) int {
	s.started = true

	tbl := L.OptTable(1, L.NewTable())

	var song *player.Song
	if s.songs == 0 {
		song = s.module.Songs[0]
	} else {
		song = s.module.AddSong()
	}
	s.songs++

	song.Title = fieldString(tbl, "title", "")
	song.Speed = max(1, fieldInt(tbl, "speed", player.DefaultSpeed))
	song.Tempo = max(0, fieldInt(tbl, "tempo", player.DefaultTempo))
	song.PatternLength = min(player.MaxPatternLength, max(1, fieldInt(tbl, "rows", player.DefaultPatternLength)))

	song.Groove = fieldInt(tbl, "groove", -1)
	if song.Groove >= 0 {
		if _, ok := s.module.Groove(song.Groove); !ok {
			L.ArgError(1, "unknown groove")
		}
	}

	L.Push(lua.LNumber(len(s.module.Songs) - 1))
	return 1
}

func (s *script) checkSong(L *lua.LState, n int) (int, *player.Song) {
	track := L.CheckInt(n)
	song, err := s.module.Song(track)
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return track, song
}

func (s *script) checkChannel(L *lua.LState, n int) int {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		ch := int(v)
		if ch < 0 || ch >= len(s.module.Channels()) {
			L.ArgError(n, "unknown channel")
		}
		return ch
	case lua.LString:
		for i, id := range s.module.Channels() {
			if id.String() == string(v) {
				return i
			}
		}
	}
	L.ArgError(n, "unknown channel")
	return -1
}

// frame(song, { patterns... }) returns the frame index. channels missing from
// the table use pattern zero
func (s *script) luaFrame(L *lua.LState) int {
	s.started = true

	track, song := s.checkSong(L, 1)
	patterns := intList(L, 2)
	if len(patterns) > song.NumChannels() {
		L.ArgError(2, "more patterns than channels")
	}

	var frame int
	if s.frames[track] == 0 {
		for ch, p := range patterns {
			if err := song.SetFrame(0, ch, p); err != nil {
				L.RaiseError("%v", err)
			}
		}
	} else {
		for _, p := range patterns {
			if p < 0 {
				L.ArgError(2, "invalid pattern number")
			}
		}
		frame = song.AddFrame(patterns...)
	}
	s.frames[track]++

	L.Push(lua.LNumber(frame))
	return 1
}

// row(song, channel, pattern, row, data)
func (s *script) luaRow(L *lua.LState) int {
	s.started = true

	_, song := s.checkSong(L, 1)
	ch := s.checkChannel(L, 2)
	pattern := L.CheckInt(3)
	row := L.CheckInt(4)

	n, err := channels.ParseNoteData(s.module.Channels()[ch], L.CheckString(5))
	if err != nil {
		L.ArgError(5, err.Error())
	}

	if err := song.SetNote(ch, pattern, row, n); err != nil {
		L.RaiseError("%v", err)
	}

	return 0
}

// channels() returns a table of channel names in channel order
func (s *script) luaChannels(L *lua.LState) int {
	tbl := L.NewTable()
	for _, id := range s.module.Channels() {
		tbl.Append(lua.LString(id.String()))
	}
	L.Push(tbl)
	return 1
}
