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

package performance

import (
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/test"
)

func TestCalcSpeed(t *testing.T) {
	tps, acc := CalcSpeed(600, 5, 60)
	test.ExpectEquality(t, tps, 120.0)
	test.ExpectEquality(t, acc, 200.0)

	tps, acc = CalcSpeed(600, 0, 60)
	test.ExpectEquality(t, tps, 0.0)
	test.ExpectEquality(t, acc, 0.0)
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("cpu, MEM")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, ProfileCPU|ProfileMem)

	p, err = ParseProfile("none")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, ProfileNone)

	_, err = ParseProfile("cpu,gpu")
	test.ExpectSuccess(t, curated.Is(err, UnknownProfile))
}

func TestCheck(t *testing.T) {
	leadTime = 10 * time.Millisecond

	// an empty song of one row loops forever
	m := player.NewModule(chips.NewSet(chips.APU))
	m.Songs[0].PatternLength = 1

	s := &strings.Builder{}
	test.DemandSuccess(t, Check(s, ProfileNone, m, 0, "50ms"))
	test.ExpectSuccess(t, strings.Contains(s.String(), "ticks/sec"))

	err := Check(s, ProfileNone, m, 0, "soon")
	test.ExpectSuccess(t, curated.Is(err, CheckError))

	err = Check(s, ProfileNone, m, 3, "50ms")
	test.ExpectSuccess(t, curated.Is(err, CheckError))
}
