// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib

import (
	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

// Pins of the DFF.
const (
	PinDFFIn  = 1
	PinDFFClk = 2
	PinDFFOut = 3
)

// A DFF is a data flip flop latching its input on the rising edge of its
// clock pin. The latched value is driven on the tick following the edge.
//
//	Inputs: in, clk
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
type DFF struct {
	name  string
	in    bool
	clk   bool
	q     bool
	out   evsim.Value
	first bool
}

// NewDFF returns a new DFF. Its output is low until the first clock edge.
func NewDFF(name string) *DFF {
	return &DFF{name: name, first: true}
}

// Name implements evsim.Device.
func (d *DFF) Name() string { return d.name }

// PinCount implements evsim.Device.
func (d *DFF) PinCount() int { return 3 }

// Run implements evsim.Device.
func (d *DFF) Run(conn *evsim.Conn) error {
	for {
		cmd, err := conn.Recv()
		if err != nil {
			return nil
		}
		switch cmd := cmd.(type) {
		case evsim.NextTickCommand:
			if v := evsim.Bool(d.q); v != d.out || d.first {
				d.out, d.first = v, false
				if err := conn.SetPin(PinDFFOut, v, evsim.Output); err != nil {
					return err
				}
			}
			if err := conn.NextTick(evsim.MaxTick); err != nil {
				return err
			}
		case evsim.SetPinCommand:
			v := evsim.IsTrue(cmd.Value)
			switch cmd.Pin {
			case PinDFFIn:
				d.in = v
			case PinDFFClk:
				// raising edge?
				if v && !d.clk {
					d.q = d.in
				}
				d.clk = v
			default:
				return errors.Errorf("DFF %q: cannot set pin %d", d.name, cmd.Pin)
			}
			if cmd.Last {
				if err := conn.NextTick(cmd.Tick + 1); err != nil {
					return err
				}
			}
		case evsim.TerminateCommand:
			return nil
		case evsim.DataCommand:
			return evsim.UnknownData(d, cmd.Payload)
		default:
			return evsim.UnexpectedCommand(d, cmd)
		}
	}
}
