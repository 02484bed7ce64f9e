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

package easyterm

import (
	"io"
)

// List of ASCII codes for non-printable keys.
const (
	KeyInterrupt      = 3  // end-of-text character
	KeySuspend        = 26 // substitute character
	KeyTab            = 9
	KeyCarriageReturn = 13
	KeyEsc            = 27
	KeyBackspace      = 127
)

// The second byte of an escape sequence.
const (
	EscCursor = '['
)

// List of cursor keys. These are the final bytes of the escape sequences
// sent by the cursor keys.
const (
	CursorUp       = 'A'
	CursorDown     = 'B'
	CursorForward  = 'C'
	CursorBackward = 'D'
)

const ansiClearLine = "\033[K"

// Key is a single key press. Cursor is zero unless the key press was a cursor
// key, in which case Rune is KeyEsc.
type Key struct {
	Rune   rune
	Cursor byte
}

// ReadKey reads a single key press from the reader. Cursor key escape
// sequences are decoded. Other escape sequences are returned as a single
// KeyEsc.
func ReadKey(r io.ByteReader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	if b != KeyEsc {
		return Key{Rune: rune(b)}, nil
	}

	b, err = r.ReadByte()
	if err != nil || b != EscCursor {
		return Key{Rune: KeyEsc}, nil
	}

	b, err = r.ReadByte()
	if err != nil {
		return Key{Rune: KeyEsc}, nil
	}

	switch b {
	case CursorUp, CursorDown, CursorForward, CursorBackward:
		return Key{Rune: KeyEsc, Cursor: b}, nil
	}

	return Key{Rune: KeyEsc}, nil
}
