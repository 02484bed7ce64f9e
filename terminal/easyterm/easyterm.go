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

// Package easyterm is a minimal interface to the terminal. It supports
// switching between canonical and cbreak modes, reading single key presses
// and writing a status line that is redrawn in place.
package easyterm

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jetsetilly/famitone/curated"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Sentinal error patterns.
const (
	NotATerminal = "easyterm: not a terminal"
	TermError    = "easyterm: %v"
)

// TermGeometry is the size of the terminal in characters.
type TermGeometry struct {
	Rows int
	Cols int
}

// Terminal is an interactive terminal.
type Terminal struct {
	input  *os.File
	output *os.File
	reader *bufio.Reader

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	// sig/ack channels to control signal handler
	terminateHandlerSig chan bool
	terminateHandlerAck chan bool

	// fields that are accessed by the signal handler
	mu       sync.Mutex
	geometry TermGeometry
}

// NewTerminal is the preferred method of initialisation for the Terminal
// type. Returns a NotATerminal error if the input is not an interactive
// terminal.
func NewTerminal(input *os.File, output *os.File) (*Terminal, error) {
	if input == nil || output == nil || !term.IsTerminal(int(input.Fd())) {
		return nil, curated.Errorf(NotATerminal)
	}

	pt := &Terminal{
		input:               input,
		output:              output,
		reader:              bufio.NewReader(input),
		terminateHandlerSig: make(chan bool),
		terminateHandlerAck: make(chan bool),
	}

	// prepare the attributes for the different terminal modes we'll be using
	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return nil, curated.Errorf(TermError, err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	_ = pt.UpdateGeometry()

	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			pt.terminateHandlerAck <- true
		}()

		for {
			select {
			case <-sigwinch:
				_ = pt.UpdateGeometry()
			case <-pt.terminateHandlerSig:
				return
			}
		}
	}()

	return pt, nil
}

// CleanUp restores canonical mode and stops the signal handler. The Terminal
// should not be used after CleanUp() has been called.
func (pt *Terminal) CleanUp() {
	pt.CanonicalMode()
	pt.terminateHandlerSig <- true
	<-pt.terminateHandlerAck
}

// Print writes a formatted string to the terminal output.
func (pt *Terminal) Print(s string, a ...any) {
	pt.output.WriteString(fmt.Sprintf(s, a...))
	pt.output.Sync()
}

// Status replaces the current line of the terminal. The string is truncated
// to the width of the terminal.
func (pt *Terminal) Status(s string, a ...any) {
	s = fmt.Sprintf(s, a...)
	if g := pt.Geometry(); g.Cols > 1 && len(s) >= g.Cols {
		s = s[:g.Cols-1]
	}
	pt.Print("\r%s%s", s, ansiClearLine)
}

// Geometry returns the most recent size of the terminal.
func (pt *Terminal) Geometry() TermGeometry {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.geometry
}

// UpdateGeometry queries the size of the terminal. Called automatically when
// the terminal is resized.
func (pt *Terminal) UpdateGeometry() error {
	ws, err := unix.IoctlGetWinsize(int(pt.output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return curated.Errorf(TermError, err)
	}

	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.geometry.Rows = int(ws.Row)
	pt.geometry.Cols = int(ws.Col)
	return nil
}

// CanonicalMode puts the terminal into line buffered mode with echo.
func (pt *Terminal) CanonicalMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
}

// CBreakMode puts the terminal into unbuffered mode without echo. Signals
// are still generated by the interrupt and suspend keys.
func (pt *Terminal) CBreakMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr)
}

// Flush discards pending input and output.
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return curated.Errorf(TermError, err)
	}
	if err := termios.Tcflush(pt.output.Fd(), termios.TCOFLUSH); err != nil {
		return curated.Errorf(TermError, err)
	}
	pt.reader.Reset(pt.input)
	return nil
}

// ReadKey blocks until a key is pressed. The terminal should be in cbreak
// mode.
func (pt *Terminal) ReadKey() (Key, error) {
	return ReadKey(pt.reader)
}
