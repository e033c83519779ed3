package plc

// Snapshot document: an observable, rate-limited summary of status,
// memory, timers, and counters. Produced on demand and on each scan,
// throttled to the configured minimum interval but force-publishable on
// lifecycle transitions and new transport connections.

import (
	"time"

	"github.com/tturner/ladderctl/internal/lifecycle"
	"github.com/tturner/ladderctl/internal/timer"
)

// TimerSnapshot reports one live timer's observable state. Current is in
// milliseconds: remaining time for TOFF/TP, elapsed time capped at Preset
// for TON.
type TimerSnapshot struct {
	Q         bool  `json:"q"`
	CurrentMs int64 `json:"current_ms"`
	PresetMs  int64 `json:"preset_ms"`
	Enabled   bool  `json:"enabled"`
}

// CounterSnapshot reports one live counter's observable state.
type CounterSnapshot struct {
	Q       bool  `json:"q"`
	Current int32 `json:"current"`
	Preset  int32 `json:"preset"`
}

// Memory is the memory sub-object of a Snapshot: non-zero M bits, non-zero
// D words, set I bits, set Q bits, and live timer/counter state.
type Memory struct {
	M []int                      `json:"m"`
	D map[int]uint32             `json:"d"`
	I []int                      `json:"i"`
	Q []int                      `json:"q"`
	T map[string]TimerSnapshot   `json:"t"`
	C map[string]CounterSnapshot `json:"c"`
}

// Snapshot is the document a transport emits to observers.
type Snapshot struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Memory Memory `json:"memory"`
}

// Snapshot builds the current document and reports whether it should be
// published given the rate limit, unless force is set. A returned
// Snapshot is always fully populated; the bool tells a caller whether
// throttling suppressed this particular publish.
func (c *Controller) Snapshot(now time.Time, force bool) (Snapshot, bool) {
	publish := force || !c.lastSnapshotSet || now.Sub(c.lastSnapshotAt) >= c.minSnapshotInterval
	if publish {
		c.lastSnapshotAt = now
		c.lastSnapshotSet = true
	}

	snap := Snapshot{
		Status: c.lifecycle.Status().String(),
		Memory: Memory{
			M: c.mem.NonZeroM(),
			D: c.mem.NonZeroD(),
			I: c.mem.SetI(),
			Q: c.mem.SetQ(),
			T: c.timerSnapshots(now),
			C: c.counterSnapshots(),
		},
	}
	if c.lifecycle.Status() == lifecycle.StatusError {
		snap.Error = c.lifecycle.LastError()
	}
	return snap, publish
}

func (c *Controller) timerSnapshots(now time.Time) map[string]TimerSnapshot {
	out := make(map[string]TimerSnapshot)
	for _, name := range c.timers.Names() {
		inst, ok := c.timers.Get(name)
		if !ok {
			continue
		}
		out[name] = TimerSnapshot{
			Q:         inst.Q,
			CurrentMs: timerCurrentMs(inst, now),
			PresetMs:  inst.Preset.Milliseconds(),
			Enabled:   inst.Enabled,
		}
	}
	return out
}

func timerCurrentMs(inst *timer.Instance, now time.Time) int64 {
	if inst.Mode == timer.ModeTON {
		if !inst.Enabled {
			return 0
		}
		elapsed := now.Sub(inst.StartTime)
		if elapsed > inst.Preset {
			elapsed = inst.Preset
		}
		return elapsed.Milliseconds()
	}
	return inst.Remaining.Milliseconds()
}

func (c *Controller) counterSnapshots() map[string]CounterSnapshot {
	out := make(map[string]CounterSnapshot)
	for _, name := range c.counters.Names() {
		inst, ok := c.counters.Get(name)
		if !ok {
			continue
		}
		out[name] = CounterSnapshot{Q: inst.Q, Current: inst.Current, Preset: inst.Preset}
	}
	return out
}
