// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// worker is the circuit side of a running device.
type worker struct {
	name     string
	index    int
	commands *mailbox[Command]
	events   *mailbox[Event]

	// replies owed by the device: one per NextTickCommand and one per
	// SetPinCommand with Last set.
	owed int
	// SetPinEvents received outside of a tick, processed on the next one.
	pending []SetPinEvent
}

// spawn starts d's Run method on a new goroutine managed by c.workers.
func (c *Circuit) spawn(index int, d Device) *worker {
	w := &worker{
		name:     d.Name(),
		index:    index,
		commands: newMailbox[Command](),
		events:   newMailbox[Event](),
	}
	log := c.log.With(zap.String("device", w.name), zap.Int("index", index))
	conn := &Conn{events: w.events, commands: w.commands}
	c.workers.Go(func() (err error) {
		// closing the event mailbox lets the circuit detect a lost worker.
		defer w.events.close()
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("device %q (%d): panic: %v", w.name, index, r)
				log.Warn("device worker panicked", zap.Any("panic", r))
			}
		}()
		log.Debug("device worker started")
		if err := d.Run(conn); err != nil {
			log.Warn("device worker failed", zap.Error(err))
			return errors.Wrapf(err, "device %q (%d)", w.name, index)
		}
		log.Debug("device worker exited")
		return nil
	})
	return w
}

func (w *worker) String() string {
	return "device " + w.name
}
