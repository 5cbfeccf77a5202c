// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simtest_test

import (
	"path/filepath"
	"testing"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/simtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestScenario_golden(t *testing.T) {
	for _, name := range []string{"and_gate", "clock_gate"} {
		t.Run(name, func(t *testing.T) {
			s, err := simtest.LoadScenario(filepath.Join("testdata", name+".yaml"))
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			assert.Equal(t, filepath.Join("testdata", filepath.Base(s.Netlist)), s.Netlist)

			res, err := s.Run(evsim.WithLogger(zaptest.NewLogger(t)))
			require.NoError(t, err)
			simtest.AssertGolden(t, name, res.Trace)
		})
	}
}

func TestScenario_coalescing(t *testing.T) {
	// batching pin changes must not change the outcome of a scenario.
	s, err := simtest.LoadScenario("testdata/and_gate.yaml")
	require.NoError(t, err)
	res, err := s.Run(evsim.WithCoalescing(true))
	require.NoError(t, err)
	assert.Equal(t, evsim.Tick(11), res.LastTick)
	simtest.AssertGolden(t, "and_gate", res.Trace)
}

func TestScenario_failure(t *testing.T) {
	s, err := simtest.ParseScenario([]byte(`
name: wrong
netlist: testdata/and.yaml
steps:
  - set: {probe: p1, value: high}
  - set: {probe: p2, value: high}
  - settle: {}
  - expect: {probe: p3, value: low}
`))
	require.NoError(t, err)
	_, err = s.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, simtest.ErrFailed), "%v", err)
	assert.Contains(t, err.Error(), "step 4")

	s.Steps = []simtest.Step{{Tick: &simtest.TickStep{At: 1, ExpectNext: "max"}}}
	_, err = s.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, simtest.ErrFailed), "%v", err)

	s.Steps = []simtest.Step{{Expect: &simtest.SetStep{Probe: "nope", Value: "low"}}}
	_, err = s.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown device")
}

func TestParseScenario_errors(t *testing.T) {
	td := []struct {
		name string
		src  string
		msg  string
	}{
		{"name", "netlist: x.yaml\nsteps: [{settle: {}}]", "name is required"},
		{"netlist", "name: x\nsteps: [{settle: {}}]", "netlist is required"},
		{"steps", "name: x\nnetlist: x.yaml", "steps"},
		{"empty step", "name: x\nnetlist: x.yaml\nsteps: [{}]", "exactly one"},
		{"two actions", "name: x\nnetlist: x.yaml\nsteps: [{settle: {}, tick: {at: 1}}]", "exactly one"},
		{"unknown field", "name: x\nnetlist: x.yaml\nsteps: [{wait: {}}]", "wait"},
		{"error name", "name: x\nnetlist: x.yaml\nsteps: [{tick: {at: 1, expect_error: oops}}]", "oops"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := simtest.ParseScenario([]byte(d.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.msg)
		})
	}
}

func TestScenario_optionsNotModified(t *testing.T) {
	s, err := simtest.LoadScenario(filepath.Join("testdata", "and_gate.yaml"))
	require.NoError(t, err)

	opts := make([]evsim.Option, 1, 4)
	opts[0] = evsim.WithLogger(zaptest.NewLogger(t))
	_, err = s.Run(opts...)
	require.NoError(t, err)
	for i, o := range opts[:cap(opts)] {
		if i > 0 {
			assert.Nil(t, o, "option %d", i)
		}
	}
}
