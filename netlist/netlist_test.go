// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist_test

import (
	"testing"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/devlib"
	"github.com/db47h/evsim/netlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	nl, err := netlist.Load("testdata/and.yaml")
	require.NoError(t, err)
	require.Len(t, nl.Devices, 4)
	i, ok := nl.Index("p3")
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	devs, nets, err := nl.Build()
	require.NoError(t, err)
	require.Len(t, devs, 4)
	assert.Equal(t, "and", devs[0].Name())
	assert.Equal(t, 3, devs[0].PinCount())
	require.Len(t, nets, 3)
	assert.Equal(t, []evsim.NetConnection{
		evsim.NewNetConnection(0, devlib.PinOut),
		evsim.NewNetConnection(3, devlib.PinProbe),
	}, nets[2].Connections())
}

func TestLoad_missing(t *testing.T) {
	_, err := netlist.Load("testdata/nonexistent.yaml")
	assert.Error(t, err)
}

func TestParse_errors(t *testing.T) {
	td := []struct {
		name string
		src  string
		msg  string
	}{
		{"unknown field", "devices: [{name: a, type: and, colour: red}]", "colour"},
		{"missing name", "devices: [{type: and}]", "missing name"},
		{"missing type", "devices: [{name: a}]", "missing type"},
		{"duplicate", "devices: [{name: a, type: and}, {name: a, type: or}]", "duplicate"},
		{"bad name", "devices: [{name: a.b, type: and}]", "invalid name"},
		{"unknown device", "devices: [{name: a, type: and}]\nnets: [[a.out, b.in1]]", "unknown device"},
		{"unknown pin", "devices: [{name: a, type: and}]\nnets: [[a.foo]]", "no pin"},
		{"syntax", "devices: [{name: a, type: and}]\nnets: [[a]]", "expected device.pin"},
		{"unknown type", "devices: [{name: a, type: flux}]\nnets: [[a.in]]", "unknown device type"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := netlist.Parse([]byte(d.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.msg)
		})
	}
}

func TestBuild_errors(t *testing.T) {
	nl, err := netlist.Parse([]byte("devices: [{name: p, type: probe, direction: sideways}]"))
	require.NoError(t, err)
	_, _, err = nl.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestNewCircuit(t *testing.T) {
	nl, err := netlist.Parse([]byte(`
devices:
  - {name: clk, type: clock, half: 2}
  - {name: out, type: probe}
nets:
  - [clk.out, out.pin]
`))
	require.NoError(t, err)
	c, err := nl.NewCircuit()
	require.NoError(t, err)
	defer c.Close()

	next, err := c.Tick(1)
	require.NoError(t, err)
	assert.Equal(t, evsim.Tick(2), next)
	v, err := devlib.ProbeRead(c, 1)
	require.NoError(t, err)
	assert.Equal(t, evsim.True, v)
}
