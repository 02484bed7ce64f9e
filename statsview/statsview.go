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

package statsview

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/jetsetilly/famitone/logger"
)

// Address of the statistics server.
const Address = "localhost:12600"

const url = "/debug/statsview"

// the interval between updates of the charts
const interval = 1000 * time.Millisecond

// Server is a running statistics server.
type Server struct {
	mgr *statsview.ViewManager
}

// Launch starts the statistics server in the background. The address of the
// server is written to output.
func Launch(output io.Writer) *Server {
	viewer.SetConfiguration(viewer.WithAddr(Address), viewer.WithInterval(int(interval.Milliseconds())))

	s := &Server{
		mgr: statsview.New(),
	}

	go func() {
		if err := s.mgr.Start(); err != nil {
			logger.Logf(logger.Allow, "statsview", "%v", err)
		}
	}()

	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)

	return s
}

// Stop the server.
func (s *Server) Stop() {
	if s != nil && s.mgr != nil {
		s.mgr.Stop()
	}
}
