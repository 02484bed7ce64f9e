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

// Package mixer combines the output of every sound chip into a single buffer
// of signed 16 bit samples at the output sample rate.
//
// Each chip writes to its own Stream. Chips that are emulated cycle by cycle
// use the Clock() function of the stream, which box-filters the chip's output
// level down to the output sample rate. Chips that synthesize samples directly
// at the output rate (the VRC7) use the AddSamples() function.
//
// The mixer and every stream share a time base. The MixSampleCount() function
// says how many samples are owed for a number of elapsed clock cycles. When
// the frame is finished with FinishBuffer() the owed samples of every stream
// are mixed and any excess samples are carried over to the next frame.
package mixer
