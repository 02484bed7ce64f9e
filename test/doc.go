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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a test failure but allow the test to
// continue. The Demand*() functions stop the test immediately. Demand
// functions are useful when the value being tested is used in further tests
// and so must be correct. For example, testing the length of a slice before
// indexing into it.
//
// ExpectSuccess() and ExpectFailure() test for success under generic
// conditions. For a bool, success is true. For an error, success is nil. The
// untyped nil value is considered to be a success.
//
// All functions take optional tag values which are printed as a prefix to any
// failure message. Tags are useful when testing inside a loop.
//
// The Writer type implements the io.Writer interface and should be used to
// capture output. The Writer.Compare() function can then be used to test for
// equality.
package test
