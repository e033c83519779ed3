package plc

// Controller wires the memory bank, ladder program, scan engine, timer and
// counter banks, and lifecycle machine together and exposes the command
// surface a transport (or a test) drives: Load, Run, Stop, Reset, Write,
// Tick, Snapshot.

import (
	"fmt"
	"time"

	"github.com/tturner/ladderctl/internal/config"
	"github.com/tturner/ladderctl/internal/counter"
	"github.com/tturner/ladderctl/internal/errors"
	"github.com/tturner/ladderctl/internal/ladder"
	"github.com/tturner/ladderctl/internal/lifecycle"
	"github.com/tturner/ladderctl/internal/mem"
	"github.com/tturner/ladderctl/internal/persist"
	"github.com/tturner/ladderctl/internal/scan"
	"github.com/tturner/ladderctl/internal/timer"
)

// Warner receives warnings surfaced by the memory bank and scan engine.
type Warner func(phase, detail string)

// Controller is the single-threaded core: every method is intended to be
// called from one cooperative goroutine (the main loop). Nothing here
// takes a lock.
type Controller struct {
	cfg *Limits

	mem       *mem.Bank
	timers    *timer.Bank
	counters  *counter.Bank
	engine    *scan.Engine
	lifecycle *lifecycle.Machine

	program    *ladder.Program
	programDoc ladder.ProgramDocument
	hasProgram bool

	minSnapshotInterval time.Duration
	lastSnapshotAt      time.Time
	lastSnapshotSet     bool

	warn Warner
}

// Limits carries the capacity settings a Controller enforces, taken from
// config.LimitsConfig so this package doesn't need to import config's YAML
// tags directly.
type Limits = config.LimitsConfig

// New creates a Controller from a limits table, a persisted-status store,
// and the minimum spacing between non-forced snapshots.
func New(limits config.LimitsConfig, store *persist.Store, minSnapshotInterval time.Duration) *Controller {
	c := &Controller{
		cfg: &limits,
		mem: mem.New(mem.Config{
			MaxMBits:  limits.MaxMBits,
			MaxIBits:  limits.MaxIBits,
			MaxQBits:  limits.MaxQBits,
			MaxDWords: limits.MaxDWords,
		}),
		timers:              timer.New(limits.MaxTimers),
		counters:            counter.New(limits.MaxCounters),
		engine:              scan.New(limits.P2MaxIterations),
		lifecycle:           lifecycle.New(store),
		minSnapshotInterval: minSnapshotInterval,
	}
	c.mem.SetWarner(func(phase, detail string) { c.warnf(phase, detail) })
	c.engine.SetWarner(func(phase, detail string) { c.warnf(phase, detail) })
	c.timers.SetWarner(func(phase, detail string) { c.warnf(phase, detail) })
	c.counters.SetWarner(func(phase, detail string) { c.warnf(phase, detail) })
	return c
}

// SetWarner installs the callback used to report silent-default warnings
// (bad addresses, capacity overflow, convergence failure).
func (c *Controller) SetWarner(w Warner) {
	c.warn = w
}

func (c *Controller) warnf(phase, detail string) {
	if c.warn != nil {
		c.warn(phase, detail)
	}
}

// Boot applies startup behavior: zero memory, adopt the persisted
// RUN/STOP status without re-persisting it.
func (c *Controller) Boot() error {
	return c.lifecycle.Boot(c.mem)
}

// Status returns the current lifecycle status.
func (c *Controller) Status() lifecycle.Status {
	return c.lifecycle.Status()
}

// LastError returns the message recorded by the most recent internal
// fault, or "" if none.
func (c *Controller) LastError() string {
	return c.lifecycle.LastError()
}

// Load replaces the running program. Nodes and links beyond capacity are
// truncated with a warning and the rest still loads. A document that fails
// validation (duplicate node ids, links to ids not in the document) leaves the previous
// program in place and transitions to STOP, per the program-load-failure
// error kind; it never transitions to ERROR.
func (c *Controller) Load(doc ladder.ProgramDocument) error {
	prog, err := ladder.Load(doc, c.cfg.MaxNodes, c.cfg.MaxLinks, c.warnf)
	if err != nil {
		if stopErr := c.lifecycle.Stop(c.mem, c.timers, c.counters); stopErr != nil {
			return stopErr
		}
		return errors.WrapProgramLoadError(err, "<admin>")
	}
	c.engine.SyncTimersAndCounters(prog, c.timers, c.counters)
	c.program = prog
	c.programDoc = doc
	c.hasProgram = true
	return nil
}

// Document returns the most recently loaded program document, unchanged
// from what Load was given.
func (c *Controller) Document() (ladder.ProgramDocument, bool) {
	return c.programDoc, c.hasProgram
}

// Run transitions to RUN. The next Tick begins scanning.
func (c *Controller) Run() error {
	return c.lifecycle.Run()
}

// Stop zeroes M and Q, disables every timer, and zeroes every counter's
// current value, then persists STOP.
func (c *Controller) Stop() error {
	return c.lifecycle.Stop(c.mem, c.timers, c.counters)
}

// Reset clears all memory and removes every timer and counter instance.
// Not persisted.
func (c *Controller) Reset() {
	c.lifecycle.Reset(c.mem, c.timers, c.counters)
}

// Fault transitions to ERROR, retaining memory. Not persisted.
func (c *Controller) Fault(reason string) {
	c.lifecycle.Fault(reason)
}

// Write forces a bit (for M/I/Q or a dotted D bit) or a whole word (for a
// plain D address). Accepted regardless of RUN/STOP; a running scan can
// overwrite it on the next cycle. Writing a T or C address is rejected:
// the external surface only forces memory, not timer/counter state.
func (c *Controller) Write(addr string, value int64) error {
	a, err := mem.Parse(addr)
	if err != nil {
		return errors.WrapAddressError(err, addr)
	}
	switch a.Kind {
	case mem.KindM, mem.KindI, mem.KindQ:
		c.mem.WriteAddr(a, value != 0)
	case mem.KindD:
		if a.HasBit {
			c.mem.WriteDBit(a, value != 0)
		} else {
			c.mem.WriteWord(a, uint32(value))
		}
	default:
		return fmt.Errorf("address %q cannot be forced over the external write surface", addr)
	}
	return nil
}

// Tick advances the controller by one scan, if and only if the current
// status is RUN. Called from the main loop on the configured scan
// interval; it is a no-op in any other state.
func (c *Controller) Tick(now time.Time) {
	if c.lifecycle.Status() != lifecycle.StatusRun || !c.hasProgram {
		return
	}
	c.engine.Cycle(c.program, c.mem, c.timers, c.counters, now)
}
