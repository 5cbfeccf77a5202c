// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib

import (
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

// A Factory creates a device of a given type. args holds type specific
// parameters; unknown keys are an error.
type Factory func(name string, args map[string]string) (evsim.Device, error)

type deviceType struct {
	new  Factory
	pins map[string]int
	args []string
}

var (
	gatePins = map[string]int{"in1": PinIn1, "in2": PinIn2, "out": PinOut}

	types = map[string]deviceType{
		"and":  gateType(NewAndGate),
		"nand": gateType(NewNandGate),
		"or":   gateType(NewOrGate),
		"nor":  gateType(NewNorGate),
		"xor":  gateType(NewXorGate),
		"xnor": gateType(NewXnorGate),
		"not": {
			new:  plain(NewNotGate),
			pins: map[string]int{"in": PinNotIn, "out": PinNotOut},
		},
		"mux": {
			new:  plain(NewMux),
			pins: map[string]int{"a": PinMuxA, "b": PinMuxB, "sel": PinMuxSel, "out": PinMuxOut},
		},
		"dmux": {
			new:  plain(NewDMux),
			pins: map[string]int{"in": PinDMuxIn, "sel": PinDMuxSel, "a": PinDMuxA, "b": PinDMuxB},
		},
		"halfadder": {
			new:  plain(NewHalfAdder),
			pins: map[string]int{"a": PinHalfA, "b": PinHalfB, "s": PinHalfS, "c": PinHalfC},
		},
		"fulladder": {
			new:  plain(NewFullAdder),
			pins: map[string]int{"a": PinFullA, "b": PinFullB, "cin": PinFullCin, "s": PinFullS, "cout": PinFullCout},
		},
		"dff": {
			new:  func(name string, _ map[string]string) (evsim.Device, error) { return NewDFF(name), nil },
			pins: map[string]int{"in": PinDFFIn, "clk": PinDFFClk, "out": PinDFFOut},
		},
		"probe": {
			new:  newProbe,
			pins: map[string]int{"pin": PinProbe},
			args: []string{"direction", "value"},
		},
		"clock": {
			new:  newClock,
			pins: map[string]int{"out": PinClock},
			args: []string{"half"},
		},
	}
)

func gateType(fn func(string) evsim.Device) deviceType {
	return deviceType{new: plain(fn), pins: gatePins}
}

// plain adapts a constructor without parameters.
func plain(fn func(string) evsim.Device) Factory {
	return func(name string, _ map[string]string) (evsim.Device, error) { return fn(name), nil }
}

func lookup(kind string) (deviceType, error) {
	t, ok := types[strings.ToLower(kind)]
	if !ok {
		return t, errors.Errorf("unknown device type %q", kind)
	}
	return t, nil
}

// New creates a new device of the given type. Type names are case
// insensitive. See Types for the list of supported types.
func New(kind, name string, args map[string]string) (evsim.Device, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	for k := range args {
		if !contains(t.args, k) {
			return nil, errors.Errorf("%s %q: unknown parameter %q", kind, name, k)
		}
	}
	d, err := t.new(name, args)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %q", kind, name)
	}
	return d, nil
}

// PinIndex returns the pin index of the named pin for the given device type.
func PinIndex(kind, pin string) (int, error) {
	t, err := lookup(kind)
	if err != nil {
		return 0, err
	}
	n, ok := t.pins[strings.ToLower(pin)]
	if !ok {
		return 0, errors.Errorf("device type %q has no pin %q", kind, pin)
	}
	return n, nil
}

// Types returns the sorted list of known device types.
func Types() []string {
	l := make([]string, 0, len(types))
	for k := range types {
		l = append(l, k)
	}
	sort.Strings(l)
	return l
}

func contains(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// ParseValue parses a pin value: "high" or "true" for evsim.True, "low" or
// "false" for evsim.False, or an unsigned integer in Go syntax.
func ParseValue(s string) (evsim.Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "true":
		return evsim.True, nil
	case "low", "false", "":
		return evsim.False, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, errors.Errorf("invalid pin value %q", s)
	}
	return evsim.Value(v), nil
}

// ParseDirection parses a pin direction: "input" or "output".
func ParseDirection(s string) (evsim.PinDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input", "in":
		return evsim.Input, nil
	case "output", "out":
		return evsim.Output, nil
	}
	return 0, errors.Errorf("invalid pin direction %q", s)
}

func newProbe(name string, args map[string]string) (evsim.Device, error) {
	dir := evsim.Input
	if s, ok := args["direction"]; ok {
		var err error
		if dir, err = ParseDirection(s); err != nil {
			return nil, err
		}
	}
	v, err := ParseValue(args["value"])
	if err != nil {
		return nil, err
	}
	return NewTestProbe(name, v, dir), nil
}

func newClock(name string, args map[string]string) (evsim.Device, error) {
	half := uint64(1)
	if s, ok := args["half"]; ok {
		var err error
		if half, err = strconv.ParseUint(s, 10, 64); err != nil {
			return nil, errors.Errorf("invalid half period %q", s)
		}
	}
	return NewClock(name, evsim.Tick(half)), nil
}
