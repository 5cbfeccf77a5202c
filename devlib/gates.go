// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package devlib provides a library of devices for evsim circuits.
package devlib

import (
	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

// Pins of two-input gates.
const (
	PinIn1 = 1
	PinIn2 = 2
	PinOut = 3
)

// Pins of the NOT gate.
const (
	PinNotIn  = 1
	PinNotOut = 2
)

// gate is a combinational device with n inputs on pins 1..n and m outputs on
// pins n+1..n+m. Outputs are recomputed on every NextTickCommand and emitted
// only when they change. Input changes reschedule the gate at the following
// tick.
type gate struct {
	name string
	kind string
	in   []bool
	out  []bool
	cur  []evsim.Value
	fn   func(in, out []bool)
}

func newGate(kind, name string, inputs, outputs int, fn func(in, out []bool)) *gate {
	return &gate{
		name: name,
		kind: kind,
		in:   make([]bool, inputs),
		out:  make([]bool, outputs),
		cur:  make([]evsim.Value, outputs),
		fn:   fn,
	}
}

// single adapts a single output function.
func single(fn func(in []bool) bool) func(in, out []bool) {
	return func(in, out []bool) { out[0] = fn(in) }
}

func (g *gate) Name() string  { return g.name }
func (g *gate) PinCount() int { return len(g.in) + len(g.out) }

// Kind returns the gate type, e.g. "AND".
func (g *gate) Kind() string { return g.kind }

func (g *gate) Run(conn *evsim.Conn) error {
	for {
		cmd, err := conn.Recv()
		if err != nil {
			return nil
		}
		switch cmd := cmd.(type) {
		case evsim.NextTickCommand:
			g.fn(g.in, g.out)
			for i, o := range g.out {
				if v := evsim.Bool(o); v != g.cur[i] {
					g.cur[i] = v
					if err := conn.SetPin(len(g.in)+i+1, v, evsim.Output); err != nil {
						return err
					}
				}
			}
			if err := conn.NextTick(evsim.MaxTick); err != nil {
				return err
			}
		case evsim.SetPinCommand:
			if cmd.Pin < 1 || cmd.Pin > len(g.in) {
				return errors.Errorf("%s %q: cannot set pin %d", g.kind, g.name, cmd.Pin)
			}
			g.in[cmd.Pin-1] = evsim.IsTrue(cmd.Value)
			if cmd.Last {
				if err := conn.NextTick(cmd.Tick + 1); err != nil {
					return err
				}
			}
		case evsim.TerminateCommand:
			return nil
		case evsim.DataCommand:
			return evsim.UnknownData(g, cmd.Payload)
		default:
			return evsim.UnexpectedCommand(g, cmd)
		}
	}
}

type binary func(a, b bool) bool

func (fn binary) eval(in, out []bool) { out[0] = fn(in[0], in[1]) }

// NewAndGate returns a AND gate.
//
//	Inputs: in1, in2
//	Outputs: out
//	Function: out = in1 && in2
func NewAndGate(name string) evsim.Device {
	return newGate("AND", name, 2, 1, binary(func(a, b bool) bool { return a && b }).eval)
}

// NewNandGate returns a NAND gate.
//
//	Inputs: in1, in2
//	Outputs: out
//	Function: out = !(in1 && in2)
func NewNandGate(name string) evsim.Device {
	return newGate("NAND", name, 2, 1, binary(func(a, b bool) bool { return !(a && b) }).eval)
}

// NewOrGate returns a OR gate.
//
//	Inputs: in1, in2
//	Outputs: out
//	Function: out = in1 || in2
func NewOrGate(name string) evsim.Device {
	return newGate("OR", name, 2, 1, binary(func(a, b bool) bool { return a || b }).eval)
}

// NewNorGate returns a NOR gate.
//
//	Inputs: in1, in2
//	Outputs: out
//	Function: out = !(in1 || in2)
func NewNorGate(name string) evsim.Device {
	return newGate("NOR", name, 2, 1, binary(func(a, b bool) bool { return !(a || b) }).eval)
}

// NewXorGate returns a XOR gate.
//
//	Inputs: in1, in2
//	Outputs: out
//	Function: out = (in1 && !in2) || (!in1 && in2)
func NewXorGate(name string) evsim.Device {
	return newGate("XOR", name, 2, 1, binary(func(a, b bool) bool { return a && !b || !a && b }).eval)
}

// NewXnorGate returns a XNOR gate.
//
//	Inputs: in1, in2
//	Outputs: out
//	Function: out = in1 && in2 || !in1 && !in2
func NewXnorGate(name string) evsim.Device {
	return newGate("XNOR", name, 2, 1, binary(func(a, b bool) bool { return a && b || !a && !b }).eval)
}

// NewNotGate returns a NOT gate. Since its input is initially low, it drives
// its output high on the first tick.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
func NewNotGate(name string) evsim.Device {
	return newGate("NOT", name, 1, 1, single(func(in []bool) bool { return !in[0] }))
}
