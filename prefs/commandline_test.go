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

package prefs_test

import (
	"testing"

	"github.com/jetsetilly/famitone/prefs"
	"github.com/jetsetilly/famitone/test"
)

func TestCommandLineParsing(t *testing.T) {
	for _, c := range []struct {
		prefs  string
		unused string
	}{
		{prefs: "sound.volume::80", unused: "sound.volume::80"},
		{prefs: "   sound.volume:: 80 ", unused: "sound.volume::80"},
		{prefs: "sound.volume::80; sound.device::oto", unused: "sound.device::oto; sound.volume::80"},
		{prefs: "sound.volume", unused: ""},
		{prefs: "sound.volume;sound.device::oto", unused: "sound.device::oto"},
		{prefs: "sound.volume::80::90", unused: ""},
		{prefs: "", unused: ""},
	} {
		prefs.PushCommandLineStack(c.prefs)
		test.ExpectEquality(t, prefs.PopCommandLineStack(), c.unused, c.prefs)
	}

	// empty stack
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
	ok, _ := prefs.GetCommandLinePref("sound.volume")
	test.ExpectFailure(t, ok)
}

func TestCommandLineStack(t *testing.T) {
	prefs.PushCommandLineStack("sound.volume::80")
	prefs.PushCommandLineStack("sound.device::oto; sound.rate::48000")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 2)

	// only the top of the stack is consulted. retrieved values are removed
	ok, _ := prefs.GetCommandLinePref("sound.volume")
	test.ExpectFailure(t, ok)
	ok, v := prefs.GetCommandLinePref("sound.device")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(string), "oto")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "sound.rate::48000")

	// first group still exists
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "sound.volume::80")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
}
