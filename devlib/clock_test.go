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

func TestClock(t *testing.T) {
	rec := &simtest.Recorder{}
	c, err := evsim.NewCircuit([]evsim.Device{devlib.NewClock("clk", 2)}, nil, evsim.WithObserver(rec))
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	// a lone clock schedules its own edges.
	var ticks []evsim.Tick
	next := evsim.Tick(1)
	for i := 0; i < 4; i++ {
		ticks = append(ticks, next)
		next, err = c.Tick(next)
		require.NoError(t, err)
	}
	assert.Equal(t, []evsim.Tick{1, 3, 5, 7}, ticks)
	assert.Equal(t, evsim.Tick(9), next)
	assert.Equal(t, []string{"1 clk.1 = 1", "3 clk.1 = 0", "5 clk.1 = 1", "7 clk.1 = 0"}, rec.Lines())

	_, err = simtest.Settle(c, 10)
	assert.ErrorIs(t, err, simtest.ErrNotSettled)
}

func TestClock_zeroPeriod(t *testing.T) {
	c, err := evsim.NewCircuit([]evsim.Device{devlib.NewClock("clk", 0)}, nil)
	require.NoError(t, err)
	defer c.Close()
	next, err := c.Tick(1)
	require.NoError(t, err)
	assert.Equal(t, evsim.Tick(2), next)
}
