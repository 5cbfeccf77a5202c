// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Circuit is a runnable circuit simulation.
//
// Every device runs on its own goroutine and communicates with the circuit
// only through messages. The circuit itself is not safe for concurrent use:
// Tick and the data channel methods must be called from a single goroutine.
type Circuit struct {
	ws       []*worker
	workers  errgroup.Group
	fanout   fanout
	lastTick Tick

	log     *zap.Logger
	m       *metrics
	timeout time.Duration
	obs     Observer

	coalesce bool
	batch    []delivery

	err      error // sticky fatal error
	closed   bool
	closeErr error
}

type delivery struct {
	device int
	cmd    SetPinCommand
}

// NewCircuit builds a new circuit from the given devices and nets, and starts
// one worker goroutine per device. Nets refer to devices by their index in
// devices.
//
// Callers must make sure to call Close once the circuit is no longer needed
// in order to stop the workers.
func NewCircuit(devices []Device, nets []Net, opts ...Option) (*Circuit, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	pinCounts := make([]int, len(devices))
	for i, d := range devices {
		if d == nil {
			return nil, errors.Wrapf(ErrTopology, "device %d is nil", i)
		}
		if pinCounts[i] = d.PinCount(); pinCounts[i] < 0 {
			return nil, errors.Wrapf(ErrTopology, "device %q (%d): negative pin count", d.Name(), i)
		}
	}
	fo, err := buildFanout(pinCounts, nets)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(o.reg)
	if err != nil {
		return nil, err
	}

	c := &Circuit{
		fanout:   fo,
		log:      o.log.Named("evsim"),
		m:        m,
		timeout:  o.timeout,
		obs:      o.obs,
		coalesce: o.coalesce,
	}
	c.ws = make([]*worker, len(devices))
	for i, d := range devices {
		c.ws[i] = c.spawn(i, d)
	}
	c.log.Debug("circuit started", zap.Int("devices", len(devices)), zap.Int("nets", len(nets)))
	return c, nil
}

// Len returns the number of devices in the circuit.
func (c *Circuit) Len() int { return len(c.ws) }

// DeviceName returns the name of the device at index i. It returns false if
// there is no such device.
func (c *Circuit) DeviceName(i int) (string, bool) {
	if i < 0 || i >= len(c.ws) {
		return "", false
	}
	return c.ws[i].name, true
}

// LastTick returns the tick of the last successful call to Tick, or 0.
func (c *Circuit) LastTick() Tick { return c.lastTick }

// Fanout returns the pins observing the given device pin. The returned slice
// is a copy.
func (c *Circuit) Fanout(device, pin int) []NetConnection {
	t, _ := c.fanout.targets(device, pin)
	return append([]NetConnection(nil), t...)
}

// Err returns the fatal error that stopped the circuit, if any.
func (c *Circuit) Err() error { return c.err }

// Tick advances the simulation to tick t and returns the earliest tick at
// which a device has an event scheduled, or MaxTick if none has.
//
// t must be greater than LastTick. Tick sends a NextTickCommand to every
// device, then drains devices in index order, propagating every output pin
// change to the pins sharing a net with it. Once Tick returns, every reply
// owed by devices has been received and no message is in flight.
//
// Pin changes a device sent since the previous tick are propagated first.
// Any other event sent outside a tick is a protocol violation.
//
// Errors other than a non-increasing tick are fatal: the circuit stops and
// every subsequent call returns the same error.
func (c *Circuit) Tick(t Tick) (Tick, error) {
	if c.err != nil {
		return MaxTick, c.err
	}
	if t <= c.lastTick {
		return MaxTick, errors.Wrapf(ErrProtocol, "tick %d is not after last tick %d", t, c.lastTick)
	}
	start := time.Now()

	for _, w := range c.ws {
		if err := c.collect(w); err != nil {
			return MaxTick, c.fail(err)
		}
	}
	for _, w := range c.ws {
		if err := c.send(w, NextTickCommand{Tick: t}); err != nil {
			return MaxTick, c.fail(err)
		}
		w.owed++
	}

	next := MaxTick
	for _, w := range c.ws {
		if err := c.drain(t, w, &next); err != nil {
			return MaxTick, c.fail(err)
		}
	}
	// collect the replies to pin changes delivered to devices that were
	// already drained.
	for pass := true; pass; {
		pass = false
		for _, w := range c.ws {
			if w.owed == 0 {
				continue
			}
			pass = true
			if err := c.drain(t, w, &next); err != nil {
				return MaxTick, c.fail(err)
			}
		}
	}

	c.lastTick = t
	c.m.ticks.Inc()
	c.m.tickDuration.Observe(time.Since(start).Seconds())
	c.log.Debug("tick", zap.Stringer("tick", t), zap.Stringer("next", next))
	return next, nil
}

// collect moves the events w emitted since the last tick to its pending pin
// changes. Only pin changes may be sent unprompted.
func (c *Circuit) collect(w *worker) error {
	for {
		ev, ok := w.events.poll()
		if !ok {
			return nil
		}
		sp, ok := ev.(SetPinEvent)
		if !ok {
			return errors.Wrapf(ErrProtocol, "tick %d: %v: unsolicited %T event", c.lastTick, w, ev)
		}
		w.pending = append(w.pending, sp)
	}
}

// drain consumes the events of w until it has received every reply w owes,
// propagating pin changes along the way.
func (c *Circuit) drain(t Tick, w *worker, next *Tick) error {
	pending := w.pending
	w.pending = nil
	for _, ev := range pending {
		if err := c.propagate(t, w, ev); err != nil {
			return err
		}
	}
	for w.owed > 0 {
		ev, err := w.events.get(c.timeout)
		if err != nil {
			return c.recvError(t, w, err)
		}
		switch ev := ev.(type) {
		case NextTickEvent:
			w.owed--
			if ev.Tick < *next {
				*next = ev.Tick
			}
		case SetPinEvent:
			if err := c.propagate(t, w, ev); err != nil {
				return err
			}
		default:
			return errors.Wrapf(ErrProtocol, "tick %d: %v: unexpected %T event", t, w, ev)
		}
	}
	return c.flush()
}

// propagate delivers an output pin change of w to every pin sharing a net
// with it. Input pin events are only counted.
func (c *Circuit) propagate(t Tick, w *worker, ev SetPinEvent) error {
	c.m.pinEvents.WithLabelValues(ev.Direction.String()).Inc()
	if ev.Direction != Output {
		return nil
	}
	targets, ok := c.fanout.targets(w.index, ev.Pin)
	if !ok {
		return errors.Wrapf(ErrProtocol, "tick %d: %v: set pin on invalid pin %d", t, w, ev.Pin)
	}
	if c.obs != nil {
		c.obs.PinDriven(t, w.index, w.name, ev.Pin, ev.Value)
	}
	for _, to := range targets {
		cmd := SetPinCommand{Tick: t, Pin: to.Pin, Value: ev.Value, Last: true}
		if c.coalesce {
			c.batch = append(c.batch, delivery{to.Device, cmd})
			continue
		}
		if err := c.deliver(to.Device, cmd); err != nil {
			return err
		}
	}
	return nil
}

// flush delivers batched pin changes. Only the last command for a given
// device has Last set.
func (c *Circuit) flush() error {
	if len(c.batch) == 0 {
		return nil
	}
	seen := make(map[int]bool)
	for i := len(c.batch) - 1; i >= 0; i-- {
		d := &c.batch[i]
		d.cmd.Last = !seen[d.device]
		seen[d.device] = true
	}
	batch := c.batch
	c.batch = c.batch[:0]
	for _, d := range batch {
		if err := c.deliver(d.device, d.cmd); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) deliver(device int, cmd SetPinCommand) error {
	w := c.ws[device]
	if err := c.send(w, cmd); err != nil {
		return err
	}
	if cmd.Last {
		w.owed++
	}
	return nil
}

func (c *Circuit) send(w *worker, cmd Command) error {
	if err := w.commands.put(cmd); err != nil {
		return errors.Wrapf(err, "%v: send %s", w, cmd.command())
	}
	c.m.commands.WithLabelValues(cmd.command()).Inc()
	return nil
}

func (c *Circuit) recvError(t Tick, w *worker, err error) error {
	if errors.Is(err, ErrTimeout) {
		return errors.Wrapf(ErrTimeout, "tick %d: %v did not reply within %v", t, w, c.timeout)
	}
	return errors.Wrapf(ErrWorkerLost, "tick %d: %v", t, w)
}

// fail records err as the circuit's fatal error.
func (c *Circuit) fail(err error) error {
	c.log.Error("circuit failed", zap.Error(err))
	c.err = err
	return err
}

// Close stops all device workers: it sends a TerminateCommand to every
// device, then waits for all workers to exit. It returns the first error
// returned by a device's Run method, if any.
//
// Close may be called more than once; later calls return the same result.
func (c *Circuit) Close() error {
	if c.closed {
		return c.closeErr
	}
	c.closed = true
	for _, w := range c.ws {
		// never blocks, even if the worker is gone.
		if err := c.send(w, TerminateCommand{}); err != nil {
			c.log.Warn("terminate", zap.Error(err))
		}
		w.commands.close()
	}
	c.closeErr = c.workers.Wait()
	if c.err == nil {
		c.err = errors.Wrap(ErrClosed, "circuit closed")
	}
	c.log.Debug("circuit closed", zap.Error(c.closeErr))
	return c.closeErr
}
