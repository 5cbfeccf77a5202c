// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"io"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/simtest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ScenarioResult reports the outcome of each scenario file.
type ScenarioResult struct {
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Runs   []ScenarioRun `json:"runs"`
}

// ScenarioRun is the outcome of one scenario.
type ScenarioRun struct {
	File     string   `json:"file"`
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	LastTick uint64   `json:"last_tick"`
	Error    string   `json:"error,omitempty"`
	Trace    []string `json:"trace,omitempty"`
}

func (r *ScenarioResult) writeText(w io.Writer) {
	for _, run := range r.Runs {
		if run.Passed {
			fmt.Fprintf(w, "PASS %s (%s)\n", run.Name, run.File)
			continue
		}
		fmt.Fprintf(w, "FAIL %s (%s)\n  %s\n", run.Name, run.File, run.Error)
	}
	fmt.Fprintf(w, "%d passed, %d failed\n", r.Passed, r.Failed)
}

// NewScenarioCommand returns the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	var coalesce bool
	cmd := &cobra.Command{
		Use:   "scenario <file>...",
		Short: "Run test scenarios",
		Long: `Run YAML test scenarios. Each scenario names a netlist, relative to the
scenario file, and a list of steps driving probes, running ticks and checking
probe values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args, coalesce, cmd)
		},
	}
	cmd.Flags().BoolVar(&coalesce, "coalesce", false, "batch pin changes sent to the same device")
	return cmd
}

func runScenarios(opts *RootOptions, files []string, coalesce bool, cmd *cobra.Command) error {
	f := &formatter{format: opts.Format, w: cmd.OutOrStdout()}
	log, err := opts.logger()
	if err != nil {
		return newExitError(ExitCommandError, "scenario", err)
	}
	defer log.Sync() // nolint: errcheck

	res := &ScenarioResult{Runs: []ScenarioRun{}}
	for _, file := range files {
		s, err := simtest.LoadScenario(file)
		if err != nil {
			return newExitError(ExitCommandError, "scenario", err)
		}
		run := ScenarioRun{File: file, Name: s.Name}
		r, err := s.Run(evsim.WithLogger(log.With(zap.String("scenario", s.Name))), evsim.WithCoalescing(coalesce))
		switch {
		case err == nil:
			run.Passed = true
			run.LastTick = uint64(r.LastTick)
			run.Trace = r.Trace.Lines()
			res.Passed++
		case errors.Is(err, simtest.ErrFailed):
			run.Error = err.Error()
			res.Failed++
		default:
			return newExitError(ExitCommandError, "scenario", err)
		}
		res.Runs = append(res.Runs, run)
	}
	if res.Failed > 0 {
		err := errors.Errorf("%d of %d scenarios failed", res.Failed, len(files))
		if perr := f.print("error", res, err); perr != nil {
			return perr
		}
		return newExitError(ExitFailure, "scenario", err)
	}
	return f.print("ok", res, nil)
}
