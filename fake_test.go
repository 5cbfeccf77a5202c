// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"sync"
)

// fakeDevice is a scriptable device recording every command it receives.
type fakeDevice struct {
	name string
	pins int
	// tick handles NextTickCommand and must send the NextTickEvent itself.
	// If nil, the device replies MaxTick.
	tick func(conn *Conn, t Tick) error
	// data handles DataCommand. If nil, data is ignored.
	data func(conn *Conn, payload DeviceData) error

	mu   sync.Mutex
	got  []Command
	conn *Conn
}

func newFake(name string, pins int) *fakeDevice {
	return &fakeDevice{name: name, pins: pins}
}

func (d *fakeDevice) Name() string  { return d.name }
func (d *fakeDevice) PinCount() int { return d.pins }

func (d *fakeDevice) Run(conn *Conn) error {
	d.mu.Lock()
	d.conn = conn
	d.mu.Unlock()
	for {
		cmd, err := conn.Recv()
		if err != nil {
			return nil
		}
		d.mu.Lock()
		d.got = append(d.got, cmd)
		d.mu.Unlock()
		switch cmd := cmd.(type) {
		case NextTickCommand:
			if d.tick != nil {
				if err := d.tick(conn, cmd.Tick); err != nil {
					return err
				}
				continue
			}
			if err := conn.NextTick(MaxTick); err != nil {
				return err
			}
		case SetPinCommand:
			if cmd.Last {
				if err := conn.NextTick(cmd.Tick + 1); err != nil {
					return err
				}
			}
		case DataCommand:
			if d.data != nil {
				if err := d.data(conn, cmd.Payload); err != nil {
					return err
				}
			}
		case TerminateCommand:
			return nil
		}
	}
}

// endpoint returns the device side of the connection, once Run has started.
func (d *fakeDevice) endpoint() *Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn
}

func (d *fakeDevice) commands() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Command(nil), d.got...)
}

func (d *fakeDevice) setPins() []SetPinCommand {
	var l []SetPinCommand
	for _, c := range d.commands() {
		if sp, ok := c.(SetPinCommand); ok {
			l = append(l, sp)
		}
	}
	return l
}

// driveOnce returns a tick handler driving pin with v at tick at.
func driveOnce(at Tick, pin int, v Value) func(*Conn, Tick) error {
	return func(conn *Conn, t Tick) error {
		if t == at {
			if err := conn.SetPin(pin, v, Output); err != nil {
				return err
			}
		}
		return conn.NextTick(MaxTick)
	}
}

func devices(ds ...*fakeDevice) []Device {
	l := make([]Device, len(ds))
	for i, d := range ds {
		l[i] = d
	}
	return l
}
