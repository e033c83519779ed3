package counter

// Named counter-instance bank: CTU/CTD. Lookup is case-insensitive by
// name, unified with the timer bank's convention (see DESIGN.md). Like
// the timer bank, this package only owns instance storage, creation, and
// sync-on-load; CTU/CTD edge-counting is evaluated by the scan engine's
// instruction dispatch against the fields below.

import (
	"strconv"
	"strings"
)

// Warner receives a warning when a new counter instance would exceed the
// bank's capacity.
type Warner func(phase, detail string)

// Mode identifies which counter instruction created an instance.
type Mode int

const (
	ModeCTU Mode = iota
	ModeCTD
)

func (m Mode) String() string {
	switch m {
	case ModeCTU:
		return "CTU"
	case ModeCTD:
		return "CTD"
	default:
		return "?"
	}
}

// Instance is one named counter's live state.
type Instance struct {
	Mode    Mode
	Preset  int32
	Current int32
	Q       bool
}

// Bank holds counter instances keyed by lowercased name, up to a fixed
// capacity (MAX_COUNTERS).
type Bank struct {
	instances map[string]*Instance
	names     map[string]string
	maxCount  int
	warn      Warner
}

// New creates an empty counter bank holding at most maxCount instances. A
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

// Get looks up a counter by name, case-insensitively.
func (b *Bank) Get(name string) (*Instance, bool) {
	inst, ok := b.instances[key(name)]
	return inst, ok
}

// Sync ensures a counter instance exists for name with the given mode and
// preset. An existing instance has its Preset updated and Mode, Current,
// and Q preserved. A new CTD instance is created with current == preset;
// a new CTU instance with current == 0. If the bank is already at
// capacity, the instance is silently dropped (a warning is emitted via
// the Warner) and Sync returns a never-latching placeholder so callers
// always have a non-nil Instance to read.
func (b *Bank) Sync(name string, mode Mode, preset int32) *Instance {
	k := key(name)
	if inst, ok := b.instances[k]; ok {
		inst.Preset = preset
		return inst
	}
	if b.maxCount > 0 && len(b.instances) >= b.maxCount {
		b.warnf("capacity", "counter "+name+" dropped: bank at capacity ("+strconv.Itoa(b.maxCount)+")")
		placeholder := &Instance{Mode: mode, Preset: preset}
		if mode == ModeCTD {
			placeholder.Current = preset
		}
		return placeholder
	}
	inst := &Instance{Mode: mode, Preset: preset}
	if mode == ModeCTD {
		inst.Current = preset
	}
	b.instances[k] = inst
	b.names[k] = name
	return inst
}

// ResetInstance clears a counter's current value and q (used by the RESET
// commit action on a C<name> address). The preset is preserved.
func (b *Bank) ResetInstance(name string) {
	if inst, ok := b.instances[key(name)]; ok {
		inst.Current = 0
		inst.Q = false
	}
}

// StopAll zeroes every counter's current value and q, preserving presets.
// Used by the STOP lifecycle transition.
func (b *Bank) StopAll() {
	for _, inst := range b.instances {
		inst.Current = 0
		inst.Q = false
	}
}

// RemoveAll deletes every counter instance. Used by the RESET lifecycle
// transition.
func (b *Bank) RemoveAll() {
	b.instances = make(map[string]*Instance)
	b.names = make(map[string]string)
}

// Names returns the display names of every live counter, in no particular
// order.
func (b *Bank) Names() []string {
	out := make([]string, 0, len(b.names))
	for _, name := range b.names {
		out = append(out, name)
	}
	return out
}

// Len returns the number of live counter instances.
func (b *Bank) Len() int {
	return len(b.instances)
}

func key(name string) string {
	return strings.ToLower(name)
}
