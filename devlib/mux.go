// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib

import "github.com/db47h/evsim"

// Pins of the multiplexer.
const (
	PinMuxA   = 1
	PinMuxB   = 2
	PinMuxSel = 3
	PinMuxOut = 4
)

// Pins of the demultiplexer.
const (
	PinDMuxIn  = 1
	PinDMuxSel = 2
	PinDMuxA   = 3
	PinDMuxB   = 4
)

// NewMux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
func NewMux(name string) evsim.Device {
	return newGate("MUX", name, 3, 1, func(in, out []bool) {
		if in[2] {
			out[0] = in[1]
		} else {
			out[0] = in[0]
		}
	})
}

// NewDMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
func NewDMux(name string) evsim.Device {
	return newGate("DMUX", name, 2, 2, func(in, out []bool) {
		out[0] = in[0] && !in[1]
		out[1] = in[0] && in[1]
	})
}
