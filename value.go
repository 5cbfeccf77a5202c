// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"math"
	"strconv"
)

// Tick is a unit of simulated time.
type Tick uint64

// MaxTick is the tick value meaning "no scheduled event".
const MaxTick Tick = math.MaxUint64

func (t Tick) String() string {
	if t == MaxTick {
		return "max"
	}
	return strconv.FormatUint(uint64(t), 10)
}

// Value is the value carried by a pin. By convention, 0 is logical false and
// all bits set is logical true. Multi-bit values are passed through untouched.
type Value uint32

// Logic levels.
const (
	False Value = 0
	True  Value = math.MaxUint32
)

// IsTrue returns true if v is not False.
func IsTrue(v Value) bool { return v != False }

// Bool returns the logic level for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func (v Value) String() string {
	switch v {
	case False:
		return "0"
	case True:
		return "1"
	}
	return "0x" + strconv.FormatUint(uint64(v), 16)
}

// PinDirection tells whether a device drives (Output) or samples (Input)
// a pin.
type PinDirection int

// Pin directions.
const (
	Input PinDirection = iota
	Output
)

func (d PinDirection) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return "PinDirection(" + strconv.Itoa(int(d)) + ")"
}
