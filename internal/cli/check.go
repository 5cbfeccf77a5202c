// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"io"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/netlist"
	"github.com/spf13/cobra"
)

// CheckResult describes a netlist that was successfully built.
type CheckResult struct {
	Devices []DeviceInfo `json:"devices"`
}

// DeviceInfo describes one device and the fanout of its pins.
type DeviceInfo struct {
	Index int        `json:"index"`
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Pins  []PinLinks `json:"pins"`
}

// PinLinks lists the pins notified when a device pin is driven.
type PinLinks struct {
	Pin     int      `json:"pin"`
	Targets []string `json:"targets"`
}

func (r *CheckResult) writeText(w io.Writer) {
	for _, d := range r.Devices {
		fmt.Fprintf(w, "%d %s (%s)\n", d.Index, d.Name, d.Type)
		for _, p := range d.Pins {
			fmt.Fprintf(w, "  %d ->", p.Pin)
			for _, t := range p.Targets {
				fmt.Fprintf(w, " %s", t)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "ok: %d devices\n", len(r.Devices))
}

// NewCheckCommand returns the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <netlist>",
		Short: "Validate a netlist and print its connections",
		Long: `Load a netlist, build its circuit and print the fanout of every device
pin, as device.pin pairs. The circuit is closed without running any tick.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := &formatter{format: opts.Format, w: cmd.OutOrStdout()}
	log, err := opts.logger()
	if err != nil {
		return newExitError(ExitCommandError, "check", err)
	}
	defer log.Sync() // nolint: errcheck

	nl, err := netlist.Load(path)
	if err != nil {
		return newExitError(ExitCommandError, "check", err)
	}
	devs, nets, err := nl.Build()
	if err != nil {
		return newExitError(ExitCommandError, "check", err)
	}
	c, err := evsim.NewCircuit(devs, nets, evsim.WithLogger(log))
	if err != nil {
		return newExitError(ExitCommandError, "check", err)
	}
	res := &CheckResult{}
	for i, d := range devs {
		di := DeviceInfo{Index: i, Name: d.Name(), Type: nl.Devices[i].Type}
		for p := 1; p <= d.PinCount(); p++ {
			pl := PinLinks{Pin: p, Targets: []string{}}
			for _, t := range c.Fanout(i, p) {
				pl.Targets = append(pl.Targets, fmt.Sprintf("%s.%d", devs[t.Device].Name(), t.Pin))
			}
			di.Pins = append(di.Pins, pl)
		}
		res.Devices = append(res.Devices, di)
	}
	if err = c.Close(); err != nil {
		return newExitError(ExitCommandError, "check", err)
	}
	return f.print("ok", res, nil)
}
