// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

// DeviceData is an opaque payload carried over the data channel. The circuit
// never inspects it; devices and their host helpers identify payloads with a
// type switch.
type DeviceData interface{}

// A Command is a message sent by the Circuit to a Device. The concrete type is
// one of NextTickCommand, SetPinCommand, DataCommand or TerminateCommand.
type Command interface {
	command() string
}

// NextTickCommand asks a device to advance to Tick and to reply with its next
// scheduled event.
type NextTickCommand struct {
	Tick Tick
}

// SetPinCommand notifies a device that one of its pins changed at Tick. Last
// marks the final command of a propagation batch; the device must answer it
// with exactly one NextTickEvent.
type SetPinCommand struct {
	Tick  Tick
	Pin   int
	Value Value
	Last  bool
}

// DataCommand carries an out-of-band request.
type DataCommand struct {
	Payload DeviceData
}

// TerminateCommand asks a device to exit its Run loop.
type TerminateCommand struct{}

func (NextTickCommand) command() string  { return "next_tick" }
func (SetPinCommand) command() string    { return "set_pin" }
func (DataCommand) command() string      { return "data" }
func (TerminateCommand) command() string { return "terminate" }

// An Event is a message sent by a Device to the Circuit. The concrete type is
// one of NextTickEvent, SetPinEvent or DataEvent.
type Event interface {
	event() string
}

// NextTickEvent reports the tick of the device's next scheduled event, or
// MaxTick if it has nothing scheduled.
type NextTickEvent struct {
	Tick Tick
}

// SetPinEvent reports that the device drives (Direction == Output) or samples
// (Direction == Input) Pin with Value.
type SetPinEvent struct {
	Pin       int
	Value     Value
	Direction PinDirection
}

// DataEvent carries an out-of-band response.
type DataEvent struct {
	Payload DeviceData
}

func (NextTickEvent) event() string { return "next_tick" }
func (SetPinEvent) event() string   { return "set_pin" }
func (DataEvent) event() string     { return "data" }
