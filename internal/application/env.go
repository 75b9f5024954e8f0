package application

import (
	"sync"
	"time"
)

// Env is the execution context of a state transition. Height orders records
// within a denom and Time is recorded as their update time.
type Env struct {
	Height uint64
	Time   time.Time
}

type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// BlockSource hands out the Env of the next state transition.
type BlockSource interface {
	Next() Env
}

// ClockBlocks derives heights from the clock in nanoseconds. Heights are
// strictly increasing even if the clock stalls or steps back, and do not
// restart from zero across process restarts.
type ClockBlocks struct {
	mu    sync.Mutex
	clock Clock
	last  uint64
}

func NewClockBlocks(c Clock) *ClockBlocks {
	if c == nil {
		c = realClock{}
	}
	return &ClockBlocks{clock: c}
}

func (b *ClockBlocks) Next() Env {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock.Now()
	var h uint64
	if ns := now.UnixNano(); ns > 0 {
		h = uint64(ns)
	}
	if h <= b.last {
		h = b.last + 1
	}
	b.last = h
	return Env{Height: h, Time: now}
}

func unixSeconds(t time.Time) uint64 {
	if s := t.Unix(); s > 0 {
		return uint64(s)
	}
	return 0
}
