// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/devlib"
)

// maxExhaustive is the largest input count for which CompareDevice tries
// every input combination.
const maxExhaustive = 12

// CompareDevice checks the outputs of a combinational device against fn for
// a set of input vectors. The first inputs pins of dev are its inputs, the
// remaining pins its outputs. fn returns the expected outputs for the given
// inputs.
//
// All inputs low, all inputs high, then every combination are tried. For
// devices with more than 12 inputs, 4096 random vectors are tried instead.
//
// CompareDevice takes ownership of dev.
func CompareDevice(t testing.TB, dev evsim.Device, inputs int, fn func(in []bool) []bool) {
	t.Helper()

	outputs := dev.PinCount() - inputs
	if inputs <= 0 || outputs <= 0 {
		t.Fatalf("%s: invalid input count %d for %d pins", dev.Name(), inputs, dev.PinCount())
	}

	// dev, then one probe per pin.
	ds := []evsim.Device{dev}
	var nets []evsim.Net
	for p := 1; p <= dev.PinCount(); p++ {
		dir := evsim.Output
		if p > inputs {
			dir = evsim.Input
		}
		ds = append(ds, devlib.NewTestProbe(fmt.Sprintf("pin%d", p), evsim.False, dir))
		nets = append(nets, evsim.NewNet(evsim.NewNetConnection(0, p), evsim.NewNetConnection(p, devlib.PinProbe)))
	}

	c, err := evsim.NewCircuit(ds, nets)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Error(err)
		}
	}()

	in := make([]bool, inputs)
	errString := func(pin int, ex, got bool) string {
		var b strings.Builder
		for i, v := range in {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d=%v", i+1, v)
		}
		return fmt.Sprintf("%s: expected %s => %d=%v, got %v", dev.Name(), b.String(), pin, ex, got)
	}

	check := func() {
		t.Helper()
		for i, v := range in {
			if err := devlib.SetOutput(c, i+1, evsim.Bool(v)); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := Settle(c, DefaultSettleLimit); err != nil {
			t.Fatal(err)
		}
		exp := fn(in)
		for o := 0; o < outputs; o++ {
			p := inputs + o + 1
			v, err := devlib.ProbeRead(c, p)
			if err != nil {
				t.Fatal(err)
			}
			if got := evsim.IsTrue(v); got != exp[o] {
				t.Fatal(errString(p, exp[o], got))
			}
		}
	}

	start := time.Now()
	n := 2

	check()
	for i := range in {
		in[i] = true
	}
	check()

	if inputs <= maxExhaustive {
		for v := 0; v < 1<<uint(inputs); v++ {
			for i := range in {
				in[i] = v&(1<<uint(i)) != 0
			}
			check()
		}
		n += 1 << uint(inputs)
	} else {
		seed := time.Now().UnixNano()
		rnd := rand.New(rand.NewSource(seed))
		for v := 0; v < 1<<maxExhaustive; v++ {
			for i := range in {
				in[i] = rnd.Int63()&(1<<62) != 0
			}
			check()
		}
		n += 1 << maxExhaustive
		t.Logf("%s: random seed %d", dev.Name(), seed)
	}

	t.Logf("%s: %d vectors, %d ticks in %v", dev.Name(), n, c.LastTick(), time.Since(start))
}
