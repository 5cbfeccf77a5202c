// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simtest

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/devlib"
	"github.com/db47h/evsim/netlist"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrFailed is wrapped by errors reporting a failed scenario expectation.
var ErrFailed = errors.New("scenario failed")

// DefaultSettleLimit is the tick limit of settle steps that do not set one.
const DefaultSettleLimit = 1000

// A Scenario is a sequence of stimuli and expectations run against a
// netlist.
//
//	name: and-gate
//	description: drive both inputs of an AND gate
//	netlist: and.yaml
//	steps:
//	  - settle: {}
//	  - set: {probe: p1, value: high}
//	  - settle: {limit: 10}
//	  - expect: {probe: p3, value: low}
//	  - tick: {at: 4, expect_error: protocol}
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Netlist is the path of the netlist file. Relative paths are resolved
	// against the directory of the scenario file.
	Netlist string `yaml:"netlist"`
	Steps   []Step `yaml:"steps"`
}

// A Step is one step of a scenario. Exactly one field must be set.
type Step struct {
	// Set drives a probe as an output.
	Set *SetStep `yaml:"set,omitempty"`
	// Input switches a probe to input mode.
	Input *ProbeStep `yaml:"input,omitempty"`
	// Tick runs a single tick.
	Tick *TickStep `yaml:"tick,omitempty"`
	// Settle runs ticks until the circuit is idle.
	Settle *SettleStep `yaml:"settle,omitempty"`
	// Expect reads a probe and compares its value.
	Expect *SetStep `yaml:"expect,omitempty"`
}

// ProbeStep names a probe.
type ProbeStep struct {
	Probe string `yaml:"probe"`
}

// SetStep names a probe and a value. See devlib.ParseValue for the value
// syntax.
type SetStep struct {
	Probe string `yaml:"probe"`
	Value string `yaml:"value"`
}

// TickStep runs tick At. If ExpectNext is set, the next tick returned must
// match ("max" for evsim.MaxTick). If ExpectError is set, the tick must fail
// with the named error: protocol, worker_lost, timeout or closed.
type TickStep struct {
	At          uint64 `yaml:"at"`
	ExpectNext  string `yaml:"expect_next,omitempty"`
	ExpectError string `yaml:"expect_error,omitempty"`
}

// SettleStep runs ticks until the circuit is idle, at most Limit ticks.
type SettleStep struct {
	Limit int `yaml:"limit,omitempty"`
}

var namedErrors = map[string]error{
	"protocol":    evsim.ErrProtocol,
	"worker_lost": evsim.ErrWorkerLost,
	"timeout":     evsim.ErrTimeout,
	"closed":      evsim.ErrClosed,
}

// LoadScenario reads and parses a scenario file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if s.Netlist != "" && !filepath.IsAbs(s.Netlist) {
		s.Netlist = filepath.Join(filepath.Dir(path), s.Netlist)
	}
	return s, nil
}

// ParseScenario parses a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	if err := s.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scenario")
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Netlist == "" {
		return errors.New("netlist is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		n := 0
		for _, set := range []bool{st.Set != nil, st.Input != nil, st.Tick != nil, st.Settle != nil, st.Expect != nil} {
			if set {
				n++
			}
		}
		if n != 1 {
			return errors.Errorf("step %d: expected exactly one of set, input, tick, settle or expect", i+1)
		}
		if st.Tick != nil && st.Tick.ExpectError != "" {
			if _, ok := namedErrors[st.Tick.ExpectError]; !ok {
				return errors.Errorf("step %d: unknown error name %q", i+1, st.Tick.ExpectError)
			}
		}
	}
	return nil
}

// Result is the outcome of a scenario run.
type Result struct {
	// Trace holds the output pin changes propagated during the run.
	Trace *Recorder
	// LastTick is the last tick run.
	LastTick evsim.Tick
}

// Run runs the scenario. opts are passed to evsim.NewCircuit.
//
// A failed expectation is reported as an error wrapping ErrFailed; other
// errors are reported as is. The circuit is always closed before Run
// returns.
func (s *Scenario) Run(opts ...evsim.Option) (res *Result, err error) {
	nl, err := netlist.Load(s.Netlist)
	if err != nil {
		return nil, err
	}
	rec := &Recorder{}
	opts = append(opts[:len(opts):len(opts)], evsim.WithObserver(rec))
	c, err := nl.NewCircuit(opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	r := &runner{nl: nl, c: c}
	for i := range s.Steps {
		if err := r.step(&s.Steps[i]); err != nil {
			return nil, errors.Wrapf(err, "%s: step %d", s.Name, i+1)
		}
	}
	return &Result{Trace: rec, LastTick: c.LastTick()}, nil
}

type runner struct {
	nl *netlist.Netlist
	c  *evsim.Circuit
}

func (r *runner) probe(name string) (int, error) {
	i, ok := r.nl.Index(name)
	if !ok {
		return 0, errors.Errorf("unknown device %q", name)
	}
	return i, nil
}

func (r *runner) step(st *Step) error {
	switch {
	case st.Set != nil:
		d, err := r.probe(st.Set.Probe)
		if err != nil {
			return err
		}
		v, err := devlib.ParseValue(st.Set.Value)
		if err != nil {
			return err
		}
		return devlib.SetOutput(r.c, d, v)
	case st.Input != nil:
		d, err := r.probe(st.Input.Probe)
		if err != nil {
			return err
		}
		return devlib.SetInput(r.c, d)
	case st.Tick != nil:
		return r.tick(st.Tick)
	case st.Settle != nil:
		limit := st.Settle.Limit
		if limit <= 0 {
			limit = DefaultSettleLimit
		}
		_, err := Settle(r.c, limit)
		return err
	case st.Expect != nil:
		d, err := r.probe(st.Expect.Probe)
		if err != nil {
			return err
		}
		want, err := devlib.ParseValue(st.Expect.Value)
		if err != nil {
			return err
		}
		got, err := devlib.ProbeRead(r.c, d)
		if err != nil {
			return err
		}
		if got != want {
			return errors.Wrapf(ErrFailed, "probe %s: expected %v, got %v", st.Expect.Probe, want, got)
		}
	}
	return nil
}

func (r *runner) tick(st *TickStep) error {
	next, err := r.c.Tick(evsim.Tick(st.At))
	if st.ExpectError != "" {
		if err == nil {
			return errors.Wrapf(ErrFailed, "tick %d: expected %s error", st.At, st.ExpectError)
		}
		if !errors.Is(err, namedErrors[st.ExpectError]) {
			return errors.Wrapf(ErrFailed, "tick %d: expected %s error, got %v", st.At, st.ExpectError, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if st.ExpectNext != "" {
		want, err := parseTick(st.ExpectNext)
		if err != nil {
			return err
		}
		if next != want {
			return errors.Wrapf(ErrFailed, "tick %d: expected next tick %v, got %v", st.At, want, next)
		}
	}
	return nil
}

func parseTick(s string) (evsim.Tick, error) {
	if strings.EqualFold(s, "max") {
		return evsim.MaxTick, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid tick %q", s)
	}
	return evsim.Tick(n), nil
}
