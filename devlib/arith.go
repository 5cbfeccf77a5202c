// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib

import "github.com/db47h/evsim"

// Pins of the half adder.
const (
	PinHalfA = 1
	PinHalfB = 2
	PinHalfS = 3
	PinHalfC = 4
)

// Pins of the full adder.
const (
	PinFullA    = 1
	PinFullB    = 2
	PinFullCin  = 3
	PinFullS    = 4
	PinFullCout = 5
)

// NewHalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
func NewHalfAdder(name string) evsim.Device {
	return newGate("HALFADDER", name, 2, 2, func(in, out []bool) {
		a, b := in[0], in[1]
		out[0] = a != b
		out[1] = a && b
	})
}

// NewFullAdder returns a full adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
func NewFullAdder(name string) evsim.Device {
	return newGate("FULLADDER", name, 3, 2, func(in, out []bool) {
		a, b, cin := in[0], in[1], in[2]
		s := a != b
		out[0] = s != cin
		out[1] = s && cin || a && b
	})
}
