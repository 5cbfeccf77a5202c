// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import "github.com/pkg/errors"

// Errors returned by the simulator. Returned errors wrap one of these; use
// errors.Is or errors.Cause to test for them.
var (
	// ErrProtocol reports a violation of the circuit/device message protocol:
	// a tick that is not strictly increasing, a message of the wrong kind, or
	// an invalid device or pin index.
	ErrProtocol = errors.New("protocol violation")
	// ErrWorkerLost reports that a device worker exited while the circuit
	// was waiting on it.
	ErrWorkerLost = errors.New("device worker lost")
	// ErrTopology reports an invalid net connection.
	ErrTopology = errors.New("invalid topology")
	// ErrTimeout is returned when a drain timeout is configured and expires.
	ErrTimeout = errors.New("device reply timeout")
	// ErrClosed is returned by operations on a closed endpoint or circuit.
	ErrClosed = errors.New("closed")
)
