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

// Package modalflag wraps the flag package of the standard library so that
// a program can have modes of operation, each with its own set of flags.
//
// Arguments are given to NewArgs() and the flags for the top level are added
// with the Add*() functions. Parse() then processes the flags and, if
// sub-modes were added with AddSubModes(), looks for a sub-mode in the first
// argument after the flags:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PLAY", "RENDER")
//	verbose := md.AddBool("log", false, "echo log to stderr")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
// The mode that was selected is returned by Mode(). If no sub-mode was named
// on the command line the first sub-mode is used. After handling the mode,
// the flags for that mode are added following a call to NewMode() and
// Parse() is called again. Path() returns every mode selected so far
// separated by a slash.
//
// Mode names are not case sensitive.
//
// AddChoice() adds a string flag that only accepts values from a list. The
// list is printed with the usage string in the help message.
package modalflag
