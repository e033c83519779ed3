package lifecycle

// The STOP/RUN/ERROR/RESET state machine. Only STOP and RUN are
// persisted across a reboot; RESET and ERROR are transient runtime
// states the operator (or an internal fault) drives the controller back
// out of with an explicit STOP/RUN command.

import (
	"github.com/tturner/ladderctl/internal/counter"
	"github.com/tturner/ladderctl/internal/mem"
	"github.com/tturner/ladderctl/internal/timer"
)

// Status is one of the four lifecycle states.
type Status int

const (
	StatusStop Status = iota
	StatusRun
	StatusError
	StatusReset
)

func (s Status) String() string {
	switch s {
	case StatusStop:
		return "STOP"
	case StatusRun:
		return "RUN"
	case StatusError:
		return "ERROR"
	case StatusReset:
		return "RESET"
	default:
		return "STOP"
	}
}

func parseStatus(s string) Status {
	switch s {
	case "RUN":
		return StatusRun
	case "ERROR":
		return StatusError
	case "RESET":
		return StatusReset
	default:
		return StatusStop
	}
}

// Persister is the subset of persist.Store the lifecycle machine needs.
type Persister interface {
	Save(status string) error
	Load(defaultStatus string) (string, error)
}

// Machine owns the current lifecycle status and drives the memory/timer/
// counter side effects each transition requires.
type Machine struct {
	status    Status
	lastError string
	persist   Persister
}

// New creates a Machine backed by the given Persister, defaulting to STOP
// until Boot or a transition runs.
func New(p Persister) *Machine {
	return &Machine{status: StatusStop, persist: p}
}

// Status returns the current lifecycle state.
func (m *Machine) Status() Status {
	return m.status
}

// LastError returns the message recorded by the most recent Fault call,
// or "" if the machine has never faulted.
func (m *Machine) LastError() string {
	return m.lastError
}

// Boot applies startup behavior: zero all memory, load the persisted
// status (defaulting to STOP), and adopt it without re-persisting.
func (m *Machine) Boot(bank *mem.Bank) error {
	bank.ZeroAll()
	saved, err := m.persist.Load(StatusStop.String())
	if err != nil {
		return err
	}
	status := parseStatus(saved)
	if status != StatusRun && status != StatusStop {
		status = StatusStop
	}
	m.status = status
	return nil
}

// Stop zeroes M and Q, disables every timer (preserving preset), zeroes
// every counter's current value (preserving preset), and persists STOP.
func (m *Machine) Stop(bank *mem.Bank, timers *timer.Bank, counters *counter.Bank) error {
	bank.ZeroMQ()
	timers.StopAll()
	counters.StopAll()
	m.status = StatusStop
	return m.persist.Save(StatusStop.String())
}

// Run transitions to RUN with no memory touch; the next tick begins
// scanning.
func (m *Machine) Run() error {
	m.status = StatusRun
	return m.persist.Save(StatusRun.String())
}

// Reset clears M, D, Q, and I, removes every timer and counter instance,
// and does not persist (RESET is a transient runtime state).
func (m *Machine) Reset(bank *mem.Bank, timers *timer.Bank, counters *counter.Bank) {
	bank.ZeroAll()
	timers.RemoveAll()
	counters.RemoveAll()
	m.status = StatusReset
}

// Fault transitions to ERROR: memory is retained, scanning stops, and
// nothing is persisted.
func (m *Machine) Fault(reason string) {
	m.status = StatusError
	m.lastError = reason
}
