package timer

// Named timer-instance bank: TON/TOFF/TP. Lookup is case-insensitive by
// name. The bank only owns instance storage, creation, and sync-on-load;
// the TON/TOFF/TP state-transition rules themselves are evaluated by the
// scan engine's instruction dispatch against the fields below.

import (
	"strconv"
	"strings"
	"time"
)

// Warner receives a warning when a new timer instance would exceed the
// bank's capacity.
type Warner func(phase, detail string)

// Mode identifies which timer instruction created an instance.
type Mode int

const (
	ModeTON Mode = iota
	ModeTOFF
	ModeTP
)

func (m Mode) String() string {
	switch m {
	case ModeTON:
		return "TON"
	case ModeTOFF:
		return "TOFF"
	case ModeTP:
		return "TP"
	default:
		return "?"
	}
}

// Instance is one named timer's live state.
type Instance struct {
	Mode      Mode
	Preset    time.Duration
	Enabled   bool
	StartTime time.Time
	Remaining time.Duration
	Q         bool
}

// Bank holds timer instances keyed by lowercased name, up to a fixed
// capacity (MAX_TIMERS).
type Bank struct {
	instances map[string]*Instance
	names     map[string]string // lowercased key -> original-case display name
	maxCount  int
	warn      Warner
}

// New creates an empty timer bank holding at most maxCount instances. A
// maxCount <= 0 is treated as unlimited.
func New(maxCount int) *Bank {
	return &Bank{
		instances: make(map[string]*Instance),
		names:     make(map[string]string),
		maxCount:  maxCount,
	}
}

// SetWarner installs the callback used to report capacity overflow.
func (b *Bank) SetWarner(w Warner) {
	b.warn = w
}

func (b *Bank) warnf(phase, detail string) {
	if b.warn != nil {
		b.warn(phase, detail)
	}
}

// Get looks up a timer by name, case-insensitively.
func (b *Bank) Get(name string) (*Instance, bool) {
	inst, ok := b.instances[key(name)]
	return inst, ok
}

// Sync ensures a timer instance exists for name with the given mode and
// preset. An existing instance has its Preset updated and Mode left
// untouched (mode is fixed the first time a timer is created); Enabled,
// StartTime, Remaining, and Q are preserved. A new instance is created
// disabled, with the given mode and preset. If the bank is already at
// capacity, the instance is silently dropped (a warning is emitted via
// the Warner) and Sync returns a disabled, never-latching placeholder so
// callers always have a non-nil Instance to read.
func (b *Bank) Sync(name string, mode Mode, preset time.Duration) *Instance {
	k := key(name)
	if inst, ok := b.instances[k]; ok {
		inst.Preset = preset
		return inst
	}
	if b.maxCount > 0 && len(b.instances) >= b.maxCount {
		b.warnf("capacity", "timer "+name+" dropped: bank at capacity ("+strconv.Itoa(b.maxCount)+")")
		return &Instance{Mode: mode, Preset: preset}
	}
	inst := &Instance{Mode: mode, Preset: preset}
	b.instances[k] = inst
	b.names[k] = name
	return inst
}

// ResetInstance clears a timer's running state (used by the RESET commit
// action on a T<name> address). The preset is preserved.
func (b *Bank) ResetInstance(name string) {
	if inst, ok := b.instances[key(name)]; ok {
		inst.Enabled = false
		inst.Q = false
		inst.StartTime = time.Time{}
		inst.Remaining = 0
	}
}

// StopAll disables every timer and clears its Q, preserving presets. Used
// by the STOP lifecycle transition.
func (b *Bank) StopAll() {
	for _, inst := range b.instances {
		inst.Enabled = false
		inst.Q = false
		inst.StartTime = time.Time{}
	}
}

// RemoveAll deletes every timer instance. Used by the RESET lifecycle
// transition.
func (b *Bank) RemoveAll() {
	b.instances = make(map[string]*Instance)
	b.names = make(map[string]string)
}

// Names returns the display names of every live timer, in no particular
// order (callers that need a stable order should sort the result).
func (b *Bank) Names() []string {
	out := make([]string, 0, len(b.names))
	for _, name := range b.names {
		out = append(out, name)
	}
	return out
}

// Len returns the number of live timer instances.
func (b *Bank) Len() int {
	return len(b.instances)
}

func key(name string) string {
	return strings.ToLower(name)
}
