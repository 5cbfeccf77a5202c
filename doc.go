/*
Package evsim provides a discrete-event digital logic simulator.

A Circuit is built from a set of Devices (logic gates, probes, clocks)
and a set of Nets joining device pins. Each device runs on its own goroutine
and talks to the circuit through two message queues: the circuit sends
Commands, the device answers with Events.

The host advances simulated time by calling Tick with strictly increasing
tick values:

	next, err := c.Tick(1)
	for err == nil && next != evsim.MaxTick {
		next, err = c.Tick(next)
	}

On every tick, the circuit asks each device, in index order, to advance and
report its next scheduled event. Output pin changes emitted by a device are
delivered as SetPinCommands to every pin sharing a net with it; the receiving
devices usually reschedule themselves at the following tick, so a change
crosses one device per tick. Tick returns the smallest next tick reported.

Devices also expose a data channel, used between ticks by test harnesses to
inject stimuli and sample values (see SendDeviceData and RecvDeviceData).

A library of devices is provided in the devlib sub-package.
*/
package evsim
