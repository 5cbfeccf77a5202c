// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist loads circuit descriptions from YAML files.
//
// A netlist lists devices by name and type, and nets as lists of
// "device.pin" connections:
//
//	devices:
//	  - {name: and, type: and}
//	  - {name: p1, type: probe, direction: output}
//	  - {name: p2, type: probe, direction: output}
//	  - {name: p3, type: probe}
//	nets:
//	  - [and.in1, p1.pin]
//	  - [and.in2, p2.pin]
//	  - [and.out, p3.pin]
//
// Device types and pin names are those of the devlib package.
package netlist

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/devlib"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Netlist is a parsed circuit description.
type Netlist struct {
	Devices []Device   `yaml:"devices"`
	Nets    [][]string `yaml:"nets"`

	index map[string]int
}

// Device describes one device of a netlist.
type Device struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// probe parameters
	Direction string `yaml:"direction,omitempty"`
	Value     string `yaml:"value,omitempty"`
	// clock parameters
	Half uint64 `yaml:"half,omitempty"`
}

func (d *Device) args() map[string]string {
	args := make(map[string]string)
	if d.Direction != "" {
		args["direction"] = d.Direction
	}
	if d.Value != "" {
		args["value"] = d.Value
	}
	if d.Half != 0 {
		args["half"] = strconv.FormatUint(d.Half, 10)
	}
	return args
}

// Load reads and parses the netlist file at path.
func Load(path string) (*Netlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read netlist")
	}
	nl, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return nl, nil
}

// Parse parses a netlist. Unknown fields are rejected.
func Parse(data []byte) (*Netlist, error) {
	var nl Netlist
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&nl); err != nil {
		return nil, errors.Wrap(err, "parse netlist")
	}
	if err := nl.check(); err != nil {
		return nil, err
	}
	return &nl, nil
}

func (nl *Netlist) check() error {
	nl.index = make(map[string]int, len(nl.Devices))
	for i, d := range nl.Devices {
		if d.Name == "" {
			return errors.Errorf("device %d: missing name", i)
		}
		if strings.ContainsAny(d.Name, ". \t") {
			return errors.Errorf("device %d: invalid name %q", i, d.Name)
		}
		if _, ok := nl.index[d.Name]; ok {
			return errors.Errorf("device %d: duplicate name %q", i, d.Name)
		}
		if d.Type == "" {
			return errors.Errorf("device %q: missing type", d.Name)
		}
		nl.index[d.Name] = i
	}
	for n, net := range nl.Nets {
		for _, c := range net {
			if _, err := nl.Connection(c); err != nil {
				return errors.Wrapf(err, "net %d", n)
			}
		}
	}
	return nil
}

// Index returns the index of the named device.
func (nl *Netlist) Index(name string) (int, bool) {
	i, ok := nl.index[name]
	return i, ok
}

// Connection parses a "device.pin" connection string.
func (nl *Netlist) Connection(s string) (evsim.NetConnection, error) {
	dot := strings.LastIndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return evsim.NetConnection{}, errors.Errorf("in %q: expected device.pin", s)
	}
	name, pin := strings.TrimSpace(s[:dot]), strings.TrimSpace(s[dot+1:])
	d, ok := nl.index[name]
	if !ok {
		return evsim.NetConnection{}, errors.Errorf("in %q: unknown device %q", s, name)
	}
	p, err := devlib.PinIndex(nl.Devices[d].Type, pin)
	if err != nil {
		return evsim.NetConnection{}, errors.Wrapf(err, "in %q", s)
	}
	return evsim.NewNetConnection(d, p), nil
}

// Build creates the devices and nets described by the netlist, ready to be
// passed to evsim.NewCircuit.
func (nl *Netlist) Build() ([]evsim.Device, []evsim.Net, error) {
	devs := make([]evsim.Device, len(nl.Devices))
	for i := range nl.Devices {
		d := &nl.Devices[i]
		dev, err := devlib.New(d.Type, d.Name, d.args())
		if err != nil {
			return nil, nil, err
		}
		devs[i] = dev
	}
	nets := make([]evsim.Net, len(nl.Nets))
	for n, net := range nl.Nets {
		conns := make([]evsim.NetConnection, len(net))
		for i, s := range net {
			c, err := nl.Connection(s)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "net %d", n)
			}
			conns[i] = c
		}
		nets[n] = evsim.NewNet(conns...)
	}
	return devs, nets, nil
}

// NewCircuit builds the netlist into a new circuit.
func (nl *Netlist) NewCircuit(opts ...evsim.Option) (*evsim.Circuit, error) {
	devs, nets, err := nl.Build()
	if err != nil {
		return nil, err
	}
	return evsim.NewCircuit(devs, nets, opts...)
}
