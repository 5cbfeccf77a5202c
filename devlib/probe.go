// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib

import (
	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

// PinProbe is the only pin of a TestProbe.
const PinProbe = 1

// A TestProbe is a single pin device driven or sampled by the host through
// the data channel.
//
// As an output, it drives its pin with the value last set by the host. As an
// input, it records the last value propagated to its pin.
//
// The probe announces its pin on the first tick and on the tick following
// every ProbeSet request.
type TestProbe struct {
	name  string
	value evsim.Value
	dir   evsim.PinDirection
	dirty bool
}

// NewTestProbe returns a new probe with the given initial value and
// direction.
func NewTestProbe(name string, value evsim.Value, dir evsim.PinDirection) *TestProbe {
	return &TestProbe{
		name:  name,
		value: value,
		dir:   dir,
		dirty: true,
	}
}

// Name implements evsim.Device.
func (p *TestProbe) Name() string { return p.name }

// PinCount implements evsim.Device.
func (p *TestProbe) PinCount() int { return 1 }

// Run implements evsim.Device.
func (p *TestProbe) Run(conn *evsim.Conn) error {
	for {
		cmd, err := conn.Recv()
		if err != nil {
			return nil
		}
		switch cmd := cmd.(type) {
		case evsim.NextTickCommand:
			if p.dirty {
				p.dirty = false
				if err := conn.SetPin(PinProbe, p.value, p.dir); err != nil {
					return err
				}
			}
			if err := conn.NextTick(evsim.MaxTick); err != nil {
				return err
			}
		case evsim.SetPinCommand:
			if cmd.Pin != PinProbe {
				return errors.Errorf("probe %q: cannot set pin %d", p.name, cmd.Pin)
			}
			if p.dir != evsim.Input {
				return errors.Errorf("probe %q: pin driven while set as output", p.name)
			}
			p.value = cmd.Value
			if cmd.Last {
				if err := conn.NextTick(cmd.Tick + 1); err != nil {
					return err
				}
			}
		case evsim.DataCommand:
			switch d := cmd.Payload.(type) {
			case ProbeSet:
				p.value = d.Value
				p.dir = d.Direction
				p.dirty = true
			case ProbeGet:
				if err := conn.Reply(ProbeValue{Value: p.value, Direction: p.dir}); err != nil {
					return err
				}
			default:
				return evsim.UnknownData(p, cmd.Payload)
			}
		case evsim.TerminateCommand:
			return nil
		default:
			return evsim.UnexpectedCommand(p, cmd)
		}
	}
}

// ProbeSet is a data request setting the value and direction of a TestProbe.
type ProbeSet struct {
	Value     evsim.Value
	Direction evsim.PinDirection
}

// ProbeGet is a data request for the current value of a TestProbe. The probe
// replies with a ProbeValue.
type ProbeGet struct{}

// ProbeValue is the response to a ProbeGet request.
type ProbeValue struct {
	Value     evsim.Value
	Direction evsim.PinDirection
}

// A DataSender sends data requests to devices. It is implemented by
// *evsim.Circuit.
type DataSender interface {
	SendDeviceData(device int, payload evsim.DeviceData) error
}

// A DataRequester sends data requests to devices and waits for their
// response. It is implemented by *evsim.Circuit.
type DataRequester interface {
	RecvDeviceData(device int, payload evsim.DeviceData) (evsim.DeviceData, error)
}

// SetOutput sets the probe at index device as an output driving v.
func SetOutput(c DataSender, device int, v evsim.Value) error {
	return c.SendDeviceData(device, ProbeSet{Value: v, Direction: evsim.Output})
}

// SetOutputHigh sets the probe at index device as an output driving True.
func SetOutputHigh(c DataSender, device int) error {
	return SetOutput(c, device, evsim.True)
}

// SetOutputLow sets the probe at index device as an output driving False.
func SetOutputLow(c DataSender, device int) error {
	return SetOutput(c, device, evsim.False)
}

// SetInput sets the probe at index device as an input. Its value is reset
// to False until a pin change is propagated to it.
func SetInput(c DataSender, device int) error {
	return c.SendDeviceData(device, ProbeSet{Value: evsim.False, Direction: evsim.Input})
}

// ProbeRead returns the current value of the probe at index device.
func ProbeRead(c DataRequester, device int) (evsim.Value, error) {
	r, err := c.RecvDeviceData(device, ProbeGet{})
	if err != nil {
		return 0, err
	}
	v, ok := r.(ProbeValue)
	if !ok {
		return 0, errors.Wrapf(evsim.ErrProtocol, "device %d: unexpected response %T to probe read", device, r)
	}
	return v.Value, nil
}
