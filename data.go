// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"github.com/pkg/errors"
)

// SendDeviceData sends an out-of-band request to device d and returns
// without waiting for the device to process it.
//
// The data channel must only be used between calls to Tick.
func (c *Circuit) SendDeviceData(d int, payload DeviceData) error {
	w, err := c.dataWorker(d)
	if err != nil {
		return err
	}
	c.m.dataRequests.Inc()
	if err := c.send(w, DataCommand{Payload: payload}); err != nil {
		return c.fail(err)
	}
	return nil
}

// RecvDeviceData sends an out-of-band request to device d and waits for its
// response.
//
// Pin changes the device emits before its response are queued and
// propagated at the start of the next tick. Any other kind of reply is a
// protocol violation.
func (c *Circuit) RecvDeviceData(d int, payload DeviceData) (DeviceData, error) {
	if err := c.SendDeviceData(d, payload); err != nil {
		return nil, err
	}
	w := c.ws[d]
	for {
		ev, err := w.events.get(c.timeout)
		if err != nil {
			return nil, c.fail(c.recvError(c.lastTick, w, err))
		}
		switch ev := ev.(type) {
		case DataEvent:
			return ev.Payload, nil
		case SetPinEvent:
			w.pending = append(w.pending, ev)
		default:
			return nil, c.fail(errors.Wrapf(ErrProtocol, "%v: unexpected %T in reply to data request", w, ev))
		}
	}
}

func (c *Circuit) dataWorker(d int) (*worker, error) {
	if c.err != nil {
		return nil, c.err
	}
	if d < 0 || d >= len(c.ws) {
		return nil, errors.Wrapf(ErrProtocol, "no device with index %d", d)
	}
	return c.ws[d], nil
}
