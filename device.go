// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import "github.com/pkg/errors"

// A Device is a component of a circuit.
//
// Run is called exactly once, on a dedicated goroutine, when the device is
// added to a circuit. It owns the device from then on and must implement the
// per-tick protocol:
//
//	NextTickCommand: send any number of SetPinEvents for the pins the device
//	drives, then exactly one NextTickEvent with the next tick the device
//	wants to be polled at (or MaxTick).
//
//	SetPinCommand: update input state. If Last is set, reply with exactly one
//	NextTickEvent, normally for Tick+1.
//
//	DataCommand: decode the payload and optionally reply with one DataEvent.
//
//	TerminateCommand: return nil.
//
// Run must also return when conn.Recv fails. A non-nil error signals an
// internal failure; the circuit observes it as a lost worker.
type Device interface {
	Name() string
	PinCount() int
	Run(conn *Conn) error
}

// Conn is the device side of the message endpoints between a device and its
// circuit.
type Conn struct {
	events   *mailbox[Event]
	commands *mailbox[Command]
}

// Send sends an event to the circuit. It never blocks.
func (c *Conn) Send(e Event) error {
	if err := c.events.put(e); err != nil {
		return errors.Wrap(err, "send event")
	}
	return nil
}

// Recv waits for the next command from the circuit. It returns an error
// wrapping ErrClosed once the circuit has gone away and all pending commands
// have been read.
func (c *Conn) Recv() (Command, error) {
	cmd, err := c.commands.get(0)
	if err != nil {
		return nil, errors.Wrap(err, "receive command")
	}
	return cmd, nil
}

// NextTick is shorthand for c.Send(NextTickEvent{t}).
func (c *Conn) NextTick(t Tick) error {
	return c.Send(NextTickEvent{Tick: t})
}

// SetPin is shorthand for c.Send(SetPinEvent{pin, v, dir}).
func (c *Conn) SetPin(pin int, v Value, dir PinDirection) error {
	return c.Send(SetPinEvent{Pin: pin, Value: v, Direction: dir})
}

// Reply is shorthand for c.Send(DataEvent{payload}).
func (c *Conn) Reply(payload DeviceData) error {
	return c.Send(DataEvent{Payload: payload})
}

// UnexpectedCommand returns an error describing a command a device cannot
// handle. Devices typically return it from Run.
func UnexpectedCommand(d Device, cmd Command) error {
	return errors.Errorf("device %q: unexpected command %T %+v", d.Name(), cmd, cmd)
}

// UnknownData returns an error describing a data payload a device cannot
// decode.
func UnknownData(d Device, payload DeviceData) error {
	return errors.Errorf("device %q: unknown data payload %T", d.Name(), payload)
}
