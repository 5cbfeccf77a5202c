// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simtest_test

import (
	"testing"

	"github.com/db47h/evsim/devlib"
	"github.com/db47h/evsim/simtest"
)

func TestCompareDevice(t *testing.T) {
	simtest.CompareDevice(t, devlib.NewXorGate("xor"), 2, func(in []bool) []bool {
		return []bool{in[0] != in[1]}
	})
	simtest.CompareDevice(t, devlib.NewNotGate("not"), 1, func(in []bool) []bool {
		return []bool{!in[0]}
	})
}
