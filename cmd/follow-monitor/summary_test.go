package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/teslashibe/go-follow/pkg/follow"
)

func TestSummary(t *testing.T) {
	s := newSummary()
	assert.Equal(t, "no cycles received", s.String())

	drive := follow.Command{State: follow.StateSteering, Left: 0.55, Right: 0.55}
	for i := 1; i <= 3; i++ {
		s.add(follow.Cycle{Command: drive, Latency: time.Duration(i) * time.Millisecond})
	}
	s.add(follow.Cycle{Command: follow.Stop(follow.CauseNoTarget), Latency: 4 * time.Millisecond})

	want := "4 cycles, 75% driving, latency mean 2.5ms p95 4.0ms\n" +
		"  stop no_target              1"
	assert.Equal(t, want, s.String())
}
