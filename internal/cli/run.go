// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/devlib"
	"github.com/db47h/evsim/netlist"
	"github.com/db47h/evsim/simtest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunResult is the outcome of a run command.
type RunResult struct {
	LastTick uint64       `json:"last_tick"`
	Settled  bool         `json:"settled"`
	Probes   []ProbeState `json:"probes"`
	Trace    []string     `json:"trace"`
}

// ProbeState is the value of a probe at the end of a run.
type ProbeState struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *RunResult) writeText(w io.Writer) {
	for _, l := range r.Trace {
		fmt.Fprintln(w, l)
	}
	for _, p := range r.Probes {
		fmt.Fprintf(w, "%s = %s\n", p.Name, p.Value)
	}
	if r.Settled {
		fmt.Fprintf(w, "settled at tick %d\n", r.LastTick)
	} else {
		fmt.Fprintf(w, "not settled at tick %d\n", r.LastTick)
	}
}

// NewRunCommand returns the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var ticks int
	cmd := &cobra.Command{
		Use:   "run <netlist>",
		Short: "Run a netlist until it settles",
		Long: `Run a netlist from tick 1, following the next tick reported by the
circuit, until no event is scheduled or the tick limit is reached. Prints the
output pin trace and the final value of every probe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, args[0], ticks, cmd)
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", simtest.DefaultSettleLimit, "maximum number of ticks to run")
	return cmd
}

func runRun(opts *RootOptions, path string, ticks int, cmd *cobra.Command) (err error) {
	f := &formatter{format: opts.Format, w: cmd.OutOrStdout()}
	log, err := opts.logger()
	if err != nil {
		return newExitError(ExitCommandError, "run", err)
	}
	defer log.Sync() // nolint: errcheck

	nl, err := netlist.Load(path)
	if err != nil {
		return newExitError(ExitCommandError, "run", err)
	}
	rec := &simtest.Recorder{}
	c, err := nl.NewCircuit(evsim.WithLogger(log), evsim.WithObserver(rec))
	if err != nil {
		return newExitError(ExitCommandError, "run", err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = newExitError(ExitCommandError, "run", cerr)
		}
	}()

	res := &RunResult{Settled: true}
	last, err := simtest.Settle(c, ticks)
	switch {
	case errors.Is(err, simtest.ErrNotSettled):
		res.Settled = false
		log.Info("circuit did not settle", zap.Int("ticks", ticks))
	case err != nil:
		return newExitError(ExitCommandError, "run", err)
	}
	res.LastTick = uint64(last)
	res.Trace = append([]string{}, rec.Lines()...)
	for i, d := range nl.Devices {
		if !strings.EqualFold(d.Type, "probe") {
			continue
		}
		v, err := devlib.ProbeRead(c, i)
		if err != nil {
			return newExitError(ExitCommandError, "run", err)
		}
		res.Probes = append(res.Probes, ProbeState{Name: d.Name, Value: v.String()})
	}
	if !res.Settled {
		if perr := f.print("error", res, simtest.ErrNotSettled); perr != nil {
			return perr
		}
		return newExitError(ExitFailure, "run", simtest.ErrNotSettled)
	}
	return f.print("ok", res, nil)
}
