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

package regdump_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/regdump"
	"github.com/jetsetilly/famitone/test"
)

func newModule(t *testing.T) *player.Module {
	t.Helper()
	m := player.NewModule(chips.NewSet(chips.APU))
	m.Songs[0].PatternLength = 4

	n := channels.EmptyNote()
	n.Note = 57
	n.Vol = 15
	test.DemandSuccess(t, m.Songs[0].SetNote(0, 0, 0, n))
	return m
}

func TestCollect(t *testing.T) {
	m := newModule(t)

	writes, err := regdump.Collect(m, 0, 4, chips.APU)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, len(writes) > 0)

	// A-4 on the first pulse channel
	var found bool
	for _, w := range writes {
		if w.Address == 0x4002 && w.Value == 0xfd {
			found = true
			test.ExpectEquality(t, w.Frame, 0)
		}
	}
	test.ExpectSuccess(t, found)

	s := &strings.Builder{}
	test.DemandSuccess(t, regdump.Write(s, writes))
	test.ExpectSuccess(t, strings.Contains(s.String(), "4002  fd"))
	test.ExpectEquality(t, strings.Count(s.String(), "\n"), len(writes))

	g := &strings.Builder{}
	regdump.Graph(g, writes)
	test.ExpectSuccess(t, strings.Contains(g.String(), "digraph"))
}

func TestCollectErrors(t *testing.T) {
	m := newModule(t)

	_, err := regdump.Collect(m, 0, 4, chips.VRC7)
	test.ExpectSuccess(t, curated.Is(err, regdump.ChipNotInModule))

	_, err = regdump.Collect(m, 5, 4, chips.APU)
	test.ExpectSuccess(t, curated.Is(err, regdump.DumpError))
}
