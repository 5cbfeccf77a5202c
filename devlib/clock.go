// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib

import (
	"github.com/db47h/evsim"
)

// PinClock is the output pin of a Clock.
const PinClock = 1

// A Clock is a free running clock source. Its output goes high on the first
// tick it is polled, then toggles every half period. Unlike other devices in
// this package, a Clock schedules its own events: it always replies with the
// tick of its next edge.
//
//	Outputs: out
type Clock struct {
	name  string
	half  evsim.Tick
	value evsim.Value
	next  evsim.Tick
}

// NewClock returns a new clock toggling its output every half ticks. A half
// period of 0 is treated as 1.
func NewClock(name string, half evsim.Tick) *Clock {
	if half == 0 {
		half = 1
	}
	return &Clock{name: name, half: half}
}

// Name implements evsim.Device.
func (c *Clock) Name() string { return c.name }

// PinCount implements evsim.Device.
func (c *Clock) PinCount() int { return 1 }

// Run implements evsim.Device.
func (c *Clock) Run(conn *evsim.Conn) error {
	for {
		cmd, err := conn.Recv()
		if err != nil {
			return nil
		}
		switch cmd := cmd.(type) {
		case evsim.NextTickCommand:
			if cmd.Tick >= c.next {
				c.value = ^c.value
				c.next = cmd.Tick + c.half
				if err := conn.SetPin(PinClock, c.value, evsim.Output); err != nil {
					return err
				}
			}
			if err := conn.NextTick(c.next); err != nil {
				return err
			}
		case evsim.SetPinCommand:
			// the clock ignores its net.
			if cmd.Last {
				if err := conn.NextTick(cmd.Tick + 1); err != nil {
					return err
				}
			}
		case evsim.TerminateCommand:
			return nil
		case evsim.DataCommand:
			return evsim.UnknownData(c, cmd.Payload)
		default:
			return evsim.UnexpectedCommand(c, cmd)
		}
	}
}
