package scan

// INSTRUCTION opcode dispatch, run during P4 commit. s is the rung
// condition reaching the instruction node (the P2 placeholder equals
// node.Input by construction, since non-NETWORK/non-INSTRUCTION nodes
// have already converged by the time P4 runs).

import (
	"strings"
	"time"

	"github.com/tturner/ladderctl/internal/counter"
	"github.com/tturner/ladderctl/internal/ladder"
	"github.com/tturner/ladderctl/internal/mem"
	"github.com/tturner/ladderctl/internal/timer"
)

func (e *Engine) dispatch(n *ladder.Node, m *mem.Bank, timers *timer.Bank, counters *counter.Bank, now time.Time) bool {
	s := n.Input
	args := strings.Split(n.Args, ":")
	opcode := strings.ToUpper(strings.TrimSpace(n.Instruction))

	switch opcode {
	case "TON", "TOFF", "TP", "CTU", "CTD":
		if arg(args, 0) == "" {
			e.warnf("dispatch", opcode+" has no timer/counter name: "+n.Instruction)
			return false
		}
	}

	switch opcode {
	case "TON":
		return e.runTON(timers, arg(args, 0), arg(args, 1), s, now)
	case "TOFF":
		return e.runTOFF(timers, arg(args, 0), arg(args, 1), s, n.PrevInput, now)
	case "TP":
		return e.runTP(timers, arg(args, 0), arg(args, 1), s, n.PrevInput, now)
	case "CTU":
		return e.runCTU(counters, arg(args, 0), arg(args, 1), s, n.PrevInput)
	case "CTD":
		return e.runCTD(counters, arg(args, 0), arg(args, 1), s, n.PrevInput)
	case "ADD":
		return e.runArith(m, s, args, func(a, b uint32) uint32 { return a + b })
	case "SUB":
		return e.runArith(m, s, args, func(a, b uint32) uint32 { return a - b })
	case "MUL":
		return e.runArith(m, s, args, func(a, b uint32) uint32 { return a * b })
	case "DIV":
		return e.runArith(m, s, args, func(a, b uint32) uint32 {
			if b == 0 {
				return 0
			}
			return a / b
		})
	case "MOD":
		return e.runArith(m, s, args, func(a, b uint32) uint32 {
			if b == 0 {
				return 0
			}
			return a % b
		})
	case "AND":
		return e.runArith(m, s, args, func(a, b uint32) uint32 { return a & b })
	case "OR":
		return e.runArith(m, s, args, func(a, b uint32) uint32 { return a | b })
	case "XOR":
		return e.runArith(m, s, args, func(a, b uint32) uint32 { return a ^ b })
	case "NOT":
		if s {
			e.writeWord(arg(args, 0), m, ^e.readWord(arg(args, 1), m))
		}
		return s
	case "SHL":
		return e.runShift(m, s, args, func(v, n uint32) uint32 { return v << n })
	case "SHR":
		return e.runShift(m, s, args, func(v, n uint32) uint32 { return v >> n })
	case "ROL":
		return e.runShift(m, s, args, rotateLeft)
	case "ROR":
		return e.runShift(m, s, args, rotateRight)
	case "EQ":
		return e.runCompare(m, s, n.Output, args, func(a, b uint32) bool { return a == b })
	case "NE":
		return e.runCompare(m, s, n.Output, args, func(a, b uint32) bool { return a != b })
	case "GT":
		return e.runCompare(m, s, n.Output, args, func(a, b uint32) bool { return a > b })
	case "GE":
		return e.runCompare(m, s, n.Output, args, func(a, b uint32) bool { return a >= b })
	case "LT":
		return e.runCompare(m, s, n.Output, args, func(a, b uint32) bool { return a < b })
	case "LE":
		return e.runCompare(m, s, n.Output, args, func(a, b uint32) bool { return a <= b })
	case "MOVE":
		if s {
			e.writeWord(arg(args, 0), m, e.readWord(arg(args, 1), m))
		}
		return s
	default:
		e.warnf("dispatch", "unknown instruction opcode "+opcode)
		return s
	}
}

// SyncTimersAndCounters walks every TON/TOFF/TP/CTU/CTD instruction node in
// prog and creates or updates its timer/counter instance, without
// evaluating any rung logic. Called at load time so a freshly deployed
// program's timers and counters are visible in a snapshot before the first
// scan runs, and so an existing instance picks up a new preset on
// redeploy even while disabled.
func (e *Engine) SyncTimersAndCounters(prog *ladder.Program, timers *timer.Bank, counters *counter.Bank) {
	for _, n := range prog.Nodes {
		if n.Type != ladder.TypeInstruction {
			continue
		}
		args := strings.Split(n.Args, ":")
		name := arg(args, 0)
		if name == "" {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(n.Instruction)) {
		case "TON":
			timers.Sync(name, timer.ModeTON, parseMillis(arg(args, 1)))
		case "TOFF":
			timers.Sync(name, timer.ModeTOFF, parseMillis(arg(args, 1)))
		case "TP":
			timers.Sync(name, timer.ModeTP, parseMillis(arg(args, 1)))
		case "CTU":
			counters.Sync(name, counter.ModeCTU, parseInt32(arg(args, 1)))
		case "CTD":
			counters.Sync(name, counter.ModeCTD, parseInt32(arg(args, 1)))
		}
	}
}

func arg(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

func (e *Engine) runTON(timers *timer.Bank, name, msArg string, s bool, now time.Time) bool {
	preset := parseMillis(msArg)
	inst := timers.Sync(name, timer.ModeTON, preset)

	switch {
	case s && !inst.Enabled:
		inst.StartTime = now
		inst.Enabled = true
		inst.Q = false
	case !s:
		inst.Enabled = false
		inst.Q = false
		inst.StartTime = time.Time{}
	}
	if inst.Enabled && now.Sub(inst.StartTime) >= inst.Preset {
		inst.Q = true
	}
	return inst.Q
}

func (e *Engine) runTOFF(timers *timer.Bank, name, msArg string, s, prevSignalIn bool, now time.Time) bool {
	preset := parseMillis(msArg)
	inst := timers.Sync(name, timer.ModeTOFF, preset)

	if s {
		inst.Q = true
		inst.Enabled = false
		inst.StartTime = time.Time{}
		inst.Remaining = inst.Preset
		return inst.Q
	}

	if prevSignalIn && !s {
		inst.StartTime = now
		inst.Enabled = true
		inst.Q = true
	}

	if inst.Enabled {
		elapsed := now.Sub(inst.StartTime)
		if elapsed >= inst.Preset {
			inst.Q = false
			inst.Enabled = false
			inst.Remaining = 0
		} else {
			inst.Q = true
			inst.Remaining = inst.Preset - elapsed
		}
	} else {
		inst.Q = false
		inst.Remaining = 0
	}
	return inst.Q
}

func (e *Engine) runTP(timers *timer.Bank, name, msArg string, s, prevSignalIn bool, now time.Time) bool {
	preset := parseMillis(msArg)
	inst := timers.Sync(name, timer.ModeTP, preset)

	if s && !prevSignalIn && !inst.Enabled {
		inst.StartTime = now
		inst.Enabled = true
		inst.Q = true
		inst.Remaining = inst.Preset
	}

	if inst.Enabled {
		elapsed := now.Sub(inst.StartTime)
		if elapsed >= inst.Preset {
			inst.Q = false
			inst.Enabled = false
			inst.Remaining = 0
		} else {
			inst.Q = true
			inst.Remaining = inst.Preset - elapsed
		}
	}
	return inst.Q
}

func (e *Engine) runCTU(counters *counter.Bank, name, presetArg string, s, prevSignalIn bool) bool {
	preset := parseInt32(presetArg)
	inst := counters.Sync(name, counter.ModeCTU, preset)

	if s && !prevSignalIn {
		inst.Current++
	}
	if inst.Current >= inst.Preset {
		inst.Q = true
	}
	return inst.Q
}

func (e *Engine) runCTD(counters *counter.Bank, name, presetArg string, s, prevSignalIn bool) bool {
	preset := parseInt32(presetArg)
	inst := counters.Sync(name, counter.ModeCTD, preset)

	if s && !prevSignalIn {
		inst.Current--
	}
	if inst.Current <= 0 {
		inst.Q = true
	}
	return inst.Q
}

func (e *Engine) runArith(m *mem.Bank, s bool, args []string, op func(a, b uint32) uint32) bool {
	if s {
		a := e.readWord(arg(args, 1), m)
		b := e.readWord(arg(args, 2), m)
		e.writeWord(arg(args, 0), m, op(a, b))
	}
	return s
}

// runShift implements SHL/SHR/ROL/ROR's quirky operand convention: the
// shift/rotate amount is read from DEST before DEST is overwritten.
func (e *Engine) runShift(m *mem.Bank, s bool, args []string, op func(v, n uint32) uint32) bool {
	if s {
		src := e.readWord(arg(args, 1), m)
		amount := e.readWord(arg(args, 0), m)
		e.writeWord(arg(args, 0), m, op(src, amount))
	}
	return s
}

func (e *Engine) runCompare(m *mem.Bank, s, placeholder bool, args []string, op func(a, b uint32) bool) bool {
	if !s {
		return placeholder
	}
	a := e.readWord(arg(args, 0), m)
	b := e.readWord(arg(args, 1), m)
	return op(a, b)
}

func rotateLeft(v, n uint32) uint32 {
	n %= 32
	return (v << n) | (v >> (32 - n))
}

func rotateRight(v, n uint32) uint32 {
	n %= 32
	return (v >> n) | (v << (32 - n))
}

func parseMillis(s string) time.Duration {
	n := parseInt32(s)
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Millisecond
}

func parseInt32(s string) int32 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var n int32
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
		n = n*10 + int32(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}
