// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nc(d, p int) NetConnection { return NewNetConnection(d, p) }

func TestBuildFanout(t *testing.T) {
	fo, err := buildFanout([]int{3, 1, 1, 0}, []Net{
		NewNet(nc(0, 1), nc(1, 1)),
		NewNet(nc(0, 3), nc(2, 1), nc(0, 2)),
		NewNet(nc(1, 1)),
	})
	require.NoError(t, err)

	require.Len(t, fo, 4)
	assert.Len(t, fo[0], 4, "one-based rows")
	assert.Len(t, fo[3], 1)

	assert.Empty(t, fo[0][0])
	assert.Equal(t, []NetConnection{nc(1, 1)}, fo[0][1])
	assert.Equal(t, []NetConnection{nc(0, 3), nc(2, 1)}, fo[0][2])
	assert.Equal(t, []NetConnection{nc(2, 1), nc(0, 2)}, fo[0][3])
	assert.Equal(t, []NetConnection{nc(0, 1)}, fo[1][1])
	assert.Equal(t, []NetConnection{nc(0, 3), nc(0, 2)}, fo[2][1])
}

func TestBuildFanout_selfConnection(t *testing.T) {
	fo, err := buildFanout([]int{1, 1}, []Net{NewNet(nc(0, 1), nc(0, 1), nc(1, 1))})
	require.NoError(t, err)
	assert.Equal(t, []NetConnection{nc(1, 1), nc(1, 1)}, fo[0][1])
	assert.Equal(t, []NetConnection{nc(0, 1), nc(0, 1)}, fo[1][1])
}

// every connection of a net sees every other distinct connection, and never
// itself.
func TestBuildFanout_symmetric(t *testing.T) {
	const devs, pins = 4, 3
	f := func(raw []uint8) bool {
		var conns []NetConnection
		seen := map[NetConnection]bool{}
		for _, r := range raw {
			c := nc(int(r)%devs, int(r/devs)%pins+1)
			if !seen[c] {
				seen[c] = true
				conns = append(conns, c)
			}
		}
		fo, err := buildFanout([]int{pins, pins, pins, pins}, []Net{NewNet(conns...)})
		if err != nil {
			return false
		}
		for _, a := range conns {
			if len(fo[a.Device][a.Pin]) != len(conns)-1 {
				return false
			}
			for _, b := range fo[a.Device][a.Pin] {
				if a == b {
					return false
				}
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestFanout_targets(t *testing.T) {
	fo, err := buildFanout([]int{1}, nil)
	require.NoError(t, err)
	_, ok := fo.targets(0, 1)
	assert.True(t, ok)
	for _, c := range []NetConnection{nc(0, 0), nc(0, 2), nc(1, 1), nc(-1, 1)} {
		_, ok := fo.targets(c.Device, c.Pin)
		assert.False(t, ok, c.String())
	}
}
