// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib_test

import (
	"testing"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/devlib"
	"github.com/db47h/evsim/simtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDFF(t *testing.T) {
	const (
		dff = iota
		in
		clk
		out
	)
	ds := []evsim.Device{
		devlib.NewDFF("dff"),
		devlib.NewTestProbe("in", evsim.False, evsim.Output),
		devlib.NewTestProbe("clk", evsim.False, evsim.Output),
		devlib.NewTestProbe("out", evsim.True, evsim.Input),
	}
	nets := []evsim.Net{
		evsim.NewNet(evsim.NewNetConnection(dff, devlib.PinDFFIn), evsim.NewNetConnection(in, devlib.PinProbe)),
		evsim.NewNet(evsim.NewNetConnection(dff, devlib.PinDFFClk), evsim.NewNetConnection(clk, devlib.PinProbe)),
		evsim.NewNet(evsim.NewNetConnection(dff, devlib.PinDFFOut), evsim.NewNetConnection(out, devlib.PinProbe)),
	}
	rec := &simtest.Recorder{}
	c, err := evsim.NewCircuit(ds, nets, evsim.WithObserver(rec))
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	step := func(probe int, v evsim.Value) evsim.Value {
		t.Helper()
		if probe >= 0 {
			require.NoError(t, devlib.SetOutput(c, probe, v))
		}
		_, err := simtest.Settle(c, settleLimit)
		require.NoError(t, err)
		r, err := devlib.ProbeRead(c, out)
		require.NoError(t, err)
		return r
	}

	// the output is driven low on the first tick.
	assert.Equal(t, evsim.False, step(-1, 0))
	// no edge, no change.
	assert.Equal(t, evsim.False, step(in, evsim.True))
	// rising edge latches in.
	assert.Equal(t, evsim.True, step(clk, evsim.True))
	// in is ignored until the next rising edge.
	assert.Equal(t, evsim.True, step(in, evsim.False))
	assert.Equal(t, evsim.True, step(clk, evsim.False))
	assert.Equal(t, evsim.False, step(clk, evsim.True))

	assert.Equal(t, []string{
		"1 dff.3 = 0",
		"1 in.1 = 0",
		"1 clk.1 = 0",
		"3 in.1 = 1",
		"5 clk.1 = 1",
		"6 dff.3 = 1",
		"8 in.1 = 0",
		"10 clk.1 = 0",
		"12 clk.1 = 1",
		"13 dff.3 = 0",
	}, rec.Lines())
}
