// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib_test

import (
	"testing"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/devlib"
	"github.com/db47h/evsim/simtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AND gate driven by two output probes and sampled by an input probe.
func TestAndGate_probes(t *testing.T) {
	const (
		and = iota
		p1
		p2
		p3
	)
	ds := []evsim.Device{
		devlib.NewAndGate("and"),
		devlib.NewTestProbe("p1", evsim.False, evsim.Output),
		devlib.NewTestProbe("p2", evsim.False, evsim.Output),
		devlib.NewTestProbe("p3", evsim.False, evsim.Input),
	}
	nets := []evsim.Net{
		evsim.NewNet(evsim.NewNetConnection(and, devlib.PinIn1), evsim.NewNetConnection(p1, devlib.PinProbe)),
		evsim.NewNet(evsim.NewNetConnection(and, devlib.PinIn2), evsim.NewNetConnection(p2, devlib.PinProbe)),
		evsim.NewNet(evsim.NewNetConnection(and, devlib.PinOut), evsim.NewNetConnection(p3, devlib.PinProbe)),
	}
	c, err := evsim.NewCircuit(ds, nets)
	require.NoError(t, err)

	read := func() evsim.Value {
		t.Helper()
		v, err := devlib.ProbeRead(c, p3)
		require.NoError(t, err)
		return v
	}
	settle := func(want evsim.Tick) {
		t.Helper()
		last, err := simtest.Settle(c, 16)
		require.NoError(t, err)
		assert.Equal(t, want, last)
	}

	next, err := c.Tick(1)
	require.NoError(t, err)
	assert.Equal(t, evsim.Tick(2), next)
	settle(2)
	assert.Equal(t, evsim.False, read())

	require.NoError(t, devlib.SetOutputHigh(c, p1))
	settle(4)
	assert.Equal(t, evsim.False, read())

	require.NoError(t, devlib.SetOutputHigh(c, p2))
	settle(7)
	assert.Equal(t, evsim.True, read())

	require.NoError(t, devlib.SetOutputLow(c, p1))
	settle(10)
	assert.Equal(t, evsim.False, read())

	_, err = c.Tick(10)
	assert.True(t, errors.Is(err, evsim.ErrProtocol), "%v", err)

	require.NoError(t, c.Close())
}
