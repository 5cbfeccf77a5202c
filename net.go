// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"fmt"

	"github.com/pkg/errors"
)

// A NetConnection identifies a pin of a device in a circuit.
type NetConnection struct {
	Device int // device index in the circuit
	Pin    int // one-based pin index
}

// NewNetConnection returns a NetConnection for the given device index and
// pin.
func NewNetConnection(device, pin int) NetConnection {
	return NetConnection{Device: device, Pin: pin}
}

func (c NetConnection) String() string {
	return fmt.Sprintf("%d.%d", c.Device, c.Pin)
}

// A Net is a group of device pins that are electrically joined.
type Net struct {
	conns []NetConnection
}

// NewNet returns a net joining the given connections.
func NewNet(conns ...NetConnection) Net {
	return Net{conns: append([]NetConnection(nil), conns...)}
}

// Connections returns the net's connections.
func (n Net) Connections() []NetConnection {
	return n.conns
}

// fanout maps a device pin to the pins that observe its value:
// fanout[device][pin] lists every other connection sharing a net with
// (device, pin). Rows are sized pinCount+1 so that pins are one-based.
type fanout [][][]NetConnection

func buildFanout(pinCounts []int, nets []Net) (fanout, error) {
	fo := make(fanout, len(pinCounts))
	for d, cnt := range pinCounts {
		fo[d] = make([][]NetConnection, cnt+1)
	}
	for n, net := range nets {
		for _, c := range net.conns {
			if c.Device < 0 || c.Device >= len(pinCounts) {
				return nil, errors.Wrapf(ErrTopology, "net %d: no device with index %d", n, c.Device)
			}
			if c.Pin < 1 || c.Pin > pinCounts[c.Device] {
				return nil, errors.Wrapf(ErrTopology, "net %d: device %d has no pin %d", n, c.Device, c.Pin)
			}
		}
		for _, from := range net.conns {
			for _, to := range net.conns {
				if from == to {
					continue
				}
				fo[from.Device][from.Pin] = append(fo[from.Device][from.Pin], to)
			}
		}
	}
	return fo, nil
}

func (fo fanout) targets(device, pin int) ([]NetConnection, bool) {
	if device < 0 || device >= len(fo) || pin < 1 || pin >= len(fo[device]) {
		return nil, false
	}
	return fo[device][pin], true
}
