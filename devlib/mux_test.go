// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package devlib_test

import (
	"testing"

	"github.com/db47h/evsim/devlib"
	"github.com/db47h/evsim/simtest"
)

func TestMux(t *testing.T) {
	simtest.CompareDevice(t, devlib.NewMux("mux"), 3, func(in []bool) []bool {
		if in[2] {
			return []bool{in[1]}
		}
		return []bool{in[0]}
	})
}

func TestDMux(t *testing.T) {
	simtest.CompareDevice(t, devlib.NewDMux("dmux"), 2, func(in []bool) []bool {
		if in[1] {
			return []bool{false, in[0]}
		}
		return []bool{in[0], false}
	})
}
