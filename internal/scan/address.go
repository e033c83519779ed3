package scan

// Contact-value and operand resolution shared by the P2 evaluator and the
// P4 instruction dispatch table.

import (
	"github.com/tturner/ladderctl/internal/counter"
	"github.com/tturner/ladderctl/internal/mem"
	"github.com/tturner/ladderctl/internal/timer"
)

// addressAsBit resolves the "contact value" of an address: M/I/Q bits and
// D words/bits read straight from memory, T/C addresses read the matching
// instance's q (false if no instance exists). An empty, malformed, or
// out-of-range address reads as false and emits a warning.
func (e *Engine) addressAsBit(raw string, m *mem.Bank, timers *timer.Bank, counters *counter.Bank) bool {
	if raw == "" {
		return false
	}
	addr, err := mem.Parse(raw)
	if err != nil {
		e.warnf("read", "addressAsBit: "+err.Error())
		return false
	}
	switch addr.Kind {
	case mem.KindM, mem.KindI, mem.KindQ:
		return m.ReadBit(addr)
	case mem.KindD:
		if addr.HasBit {
			return m.ReadDBit(addr)
		}
		return m.ReadWord(addr) != 0
	case mem.KindT:
		if inst, ok := timers.Get(addr.Name); ok {
			return inst.Q
		}
		return false
	case mem.KindC:
		if inst, ok := counters.Get(addr.Name); ok {
			return inst.Q
		}
		return false
	default:
		return false
	}
}

// readWord resolves an instruction operand. Only D-word addresses are
// supported; literal integers and T/C addresses are not (see DESIGN.md).
func (e *Engine) readWord(raw string, m *mem.Bank) uint32 {
	addr, err := mem.Parse(raw)
	if err != nil {
		e.warnf("read", "readWord: "+err.Error())
		return 0
	}
	if addr.Kind != mem.KindD {
		e.warnf("read", "readWord: operand "+raw+" is not a D-word address")
		return 0
	}
	return m.ReadWord(addr)
}

// writeWord resolves an instruction destination and writes a full D word.
func (e *Engine) writeWord(raw string, m *mem.Bank, value uint32) {
	addr, err := mem.Parse(raw)
	if err != nil {
		e.warnf("write", "writeWord: "+err.Error())
		return
	}
	if addr.Kind != mem.KindD {
		e.warnf("write", "writeWord: destination "+raw+" is not a D-word address")
		return
	}
	m.WriteWord(addr, value)
}
