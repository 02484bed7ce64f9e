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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with the Errorf() function which, like the
// function of the same name in the fmt package, takes a formatting pattern and
// placeholder values.
//
// The pattern is remembered and is what differentiates one curated error from
// another. Packages declare their patterns as exported constants so that
// callers can test for them:
//
//	const UnsupportedChip = "apu: unsupported chip (%v)"
//
//	err := curated.Errorf(UnsupportedChip, kind)
//	if curated.Is(err, UnsupportedChip) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("soundgen: %v", err)
//	curated.Has(f, apu.UnsupportedChip) // true
//	curated.Is(f, apu.UnsupportedChip)  // false
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. So:
//
//	e := curated.Errorf("render: %v", "cannot open file")
//	f := curated.Errorf("render: %v", e)
//
// will print as "render: cannot open file" and not "render: render: cannot
// open file".
//
// Curated errors also implement Unwrap() so that errors.Is() and errors.As()
// from the standard library can see through them to any uncurated error used
// as a placeholder value.
package curated
