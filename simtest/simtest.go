// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for driving and testing
// circuits.
package simtest

import (
	"fmt"
	"strings"

	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

// ErrNotSettled is returned by Settle when the circuit still has events
// scheduled after the tick limit.
var ErrNotSettled = errors.New("circuit did not settle")

// A Ticker is a circuit that can be advanced in time. It is implemented by
// *evsim.Circuit.
type Ticker interface {
	Tick(t evsim.Tick) (evsim.Tick, error)
	LastTick() evsim.Tick
}

// Settle runs c from the tick following c.LastTick(), following the next
// ticks returned by c, until no device has an event scheduled. It returns the
// last tick run.
//
// At most limit ticks are run. If the circuit still has events scheduled
// after that, Settle returns an error wrapping ErrNotSettled.
func Settle(c Ticker, limit int) (evsim.Tick, error) {
	t := c.LastTick() + 1
	for i := 0; i < limit; i++ {
		next, err := c.Tick(t)
		if err != nil {
			return c.LastTick(), err
		}
		if next == evsim.MaxTick {
			return t, nil
		}
		if next <= t {
			next = t + 1
		}
		t = next
	}
	return c.LastTick(), errors.Wrapf(ErrNotSettled, "after %d ticks, next event at tick %d", limit, t)
}

// Recorder records the output pin changes propagated by a circuit. It
// implements evsim.Observer.
type Recorder struct {
	lines []string
}

// PinDriven implements evsim.Observer.
func (r *Recorder) PinDriven(t evsim.Tick, device int, name string, pin int, v evsim.Value) {
	r.lines = append(r.lines, fmt.Sprintf("%d %s.%d = %v", t, name, pin, v))
}

// Lines returns the recorded changes, one per line.
func (r *Recorder) Lines() []string { return r.lines }

// Reset clears the recorder.
func (r *Recorder) Reset() { r.lines = r.lines[:0] }

// String returns the recorded changes, one per line.
func (r *Recorder) String() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}
