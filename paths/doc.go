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

// Package paths should be used whenever a request to the filesystem is made
// for a resource owned by Famitone, such as the preferences file. The
// functions herein make sure that the correct path (depending on the build and
// the operating system) is used for the resource.
//
// Development builds use a directory in the current working directory. Builds
// made with the "release" tag use a directory in the user's configuration
// directory, as given by os.UserConfigDir().
package paths
