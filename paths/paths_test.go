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

package paths_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/famitone/paths"
	"github.com/jetsetilly/famitone/test"
)

func TestPaths(t *testing.T) {
	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".famitone/foo/bar/baz")

	pth, err = paths.ResourcePath("foo/bar", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".famitone/foo/bar")

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".famitone/baz")

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".famitone")
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("render", "songs/demo.lua", "wav")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "render_demo_"))
	test.ExpectSuccess(t, strings.HasSuffix(fn, ".wav"))

	fn = paths.UniqueFilename("render", "", ".wav")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "render_2"))
	test.ExpectSuccess(t, strings.HasSuffix(fn, ".wav"))
	test.ExpectFailure(t, strings.Contains(fn, ".."))
}
