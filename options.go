// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// An Observer is notified of every output pin change propagated by a circuit.
// PinDriven is called on the goroutine calling Circuit.Tick, in propagation
// order.
type Observer interface {
	PinDriven(t Tick, device int, name string, pin int, v Value)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(t Tick, device int, name string, pin int, v Value)

// PinDriven calls f.
func (f ObserverFunc) PinDriven(t Tick, device int, name string, pin int, v Value) {
	f(t, device, name, pin, v)
}

type options struct {
	log      *zap.Logger
	reg      prometheus.Registerer
	timeout  time.Duration
	coalesce bool
	obs      Observer
}

// An Option configures a Circuit.
type Option func(*options)

// WithLogger sets the logger used by the circuit and its workers.
// The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRegisterer registers the circuit metrics with r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.reg = r }
}

// WithDrainTimeout bounds every wait on a device reply. A timeout is
// reported as ErrTimeout and is fatal to the circuit. A value <= 0 disables
// the timeout, which is the default.
//
// This is a debugging aid: a device that never replies otherwise deadlocks
// the circuit.
func WithDrainTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithCoalescing enables batching of propagated pin changes. When enabled,
// the pin changes a device emits during one drain are delivered to each target
// with Last set only on the final command for that target, so that targets
// reply once per batch instead of once per change.
func WithCoalescing(enable bool) Option {
	return func(o *options) { o.coalesce = enable }
}

// WithObserver sets an observer for propagated output changes.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.obs = obs }
}
