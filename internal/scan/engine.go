package scan

// The phased scan cycle: P1 seeds NETWORK sources, P2 iterates contact
// logic to a fixpoint, P4 commits coils/instructions. Networks execute in
// the program's configured order (numeric-suffix, not lexicographic —
// see internal/ladder's distinctNetworkIDs and DESIGN.md), and within a
// network P1/P2 complete before P4 runs; coils only affect global memory,
// so there is no cross-network ordering hazard.

import (
	"time"

	"github.com/tturner/ladderctl/internal/counter"
	"github.com/tturner/ladderctl/internal/ladder"
	"github.com/tturner/ladderctl/internal/mem"
	"github.com/tturner/ladderctl/internal/timer"
)

// Warner receives a warning whenever the scan engine hits a degraded
// condition: a bad address, a non-convergent network, or an unknown
// instruction opcode.
type Warner func(phase, detail string)

// Engine runs scan cycles against a loaded program and the shared memory,
// timer, and counter banks. It holds no program state of its own — every
// call passes the program and banks explicitly, so a single Engine can
// drive any number of controllers.
type Engine struct {
	MaxIterations int
	warn          Warner
}

// New creates an Engine with the given P2 fixpoint iteration cap.
func New(maxIterations int) *Engine {
	if maxIterations <= 0 {
		maxIterations = 10
	}
	return &Engine{MaxIterations: maxIterations}
}

// SetWarner installs the callback used to report scan-time warnings.
func (e *Engine) SetWarner(w Warner) {
	e.warn = w
}

func (e *Engine) warnf(phase, detail string) {
	if e.warn != nil {
		e.warn(phase, detail)
	}
}

// Cycle runs one full scan over every network in prog, in prog.NetworkIDs
// order, against the given memory/timer/counter banks, at simulated time
// now.
func (e *Engine) Cycle(prog *ladder.Program, m *mem.Bank, timers *timer.Bank, counters *counter.Bank, now time.Time) {
	prog.BeginCycle()

	for _, networkID := range prog.NetworkIDs {
		nodes := prog.NodesInNetwork(networkID)
		e.runNetworkP1(nodes, prog)
		e.runNetworkP2(networkID, nodes, prog, m, timers, counters)
		e.runNetworkP4(nodes, m, timers, counters, now)
	}
}

// runNetworkP1 seeds every NETWORK-type node's input and propagates it to
// immediate successors.
func (e *Engine) runNetworkP1(nodes []*ladder.Node, prog *ladder.Program) {
	for _, n := range nodes {
		if n.Type != ladder.TypeNetwork {
			continue
		}
		n.Output = true
		for _, to := range prog.Forward[n.ID] {
			if target := findNodeByID(prog, to); target != nil {
				target.Input = true
			}
		}
	}
}

// runNetworkP2 iterates non-NETWORK node evaluation to a fixpoint (capped
// at e.MaxIterations), propagating non-INSTRUCTION outputs over forward
// links as it goes.
func (e *Engine) runNetworkP2(networkID string, nodes []*ladder.Node, prog *ladder.Program, m *mem.Bank, timers *timer.Bank, counters *counter.Bank) {
	for iter := 0; iter < e.MaxIterations; iter++ {
		changed := false
		for _, n := range nodes {
			if n.Type == ladder.TypeNetwork {
				continue
			}
			prevOutput := n.Output

			if n.Type == ladder.TypeInstruction {
				n.Output = n.Input
			} else {
				n.Output = e.evaluateNode(n, m, timers, counters)
			}

			if n.Output != prevOutput {
				changed = true
			}

			if n.Type != ladder.TypeInstruction {
				for _, to := range prog.Forward[n.ID] {
					if target := findNodeByID(prog, to); target != nil {
						if n.Output && !target.Input {
							changed = true
						}
						target.Input = target.Input || n.Output
					}
				}
			}
		}
		if !changed {
			return
		}
	}
	e.warnf("P2", "network "+networkID+" did not converge within the iteration cap")
}

// evaluateNode computes a contact node's output for this P2 pass. Edge
// detectors update PrevContact on every pass.
func (e *Engine) evaluateNode(n *ladder.Node, m *mem.Bank, timers *timer.Bank, counters *counter.Bank) bool {
	switch n.Type {
	case ladder.TypeOpen:
		return n.Input && e.addressAsBit(n.Addr, m, timers, counters)
	case ladder.TypeClose, ladder.TypeInvert:
		return n.Input && !e.addressAsBit(n.Addr, m, timers, counters)
	case ladder.TypeRising:
		v := e.addressAsBit(n.Addr, m, timers, counters)
		out := n.Input && (!n.PrevContact && v)
		n.PrevContact = v
		return out
	case ladder.TypeFalling:
		v := e.addressAsBit(n.Addr, m, timers, counters)
		out := n.Input && (n.PrevContact && !v)
		n.PrevContact = v
		return out
	case ladder.TypeCoil, ladder.TypeSet, ladder.TypeReset:
		return n.Input
	default:
		return n.Input
	}
}

// runNetworkP4 commits coil writes and runs instruction dispatch, in
// document order within the network.
func (e *Engine) runNetworkP4(nodes []*ladder.Node, m *mem.Bank, timers *timer.Bank, counters *counter.Bank, now time.Time) {
	for _, n := range nodes {
		switch n.Type {
		case ladder.TypeCoil:
			e.commitCoil(n, m)
		case ladder.TypeSet:
			e.commitSet(n, m)
		case ladder.TypeReset:
			e.commitReset(n, m, timers, counters)
		case ladder.TypeInstruction:
			n.Output = e.dispatch(n, m, timers, counters, now)
		}
	}
}

func (e *Engine) commitCoil(n *ladder.Node, m *mem.Bank) {
	addr, err := mem.Parse(n.Addr)
	if err != nil {
		e.warnf("write", "COIL "+n.Addr+": "+err.Error())
		return
	}
	if addr.Kind == mem.KindT || addr.Kind == mem.KindC {
		e.warnf("write", "COIL cannot target a timer/counter address: "+n.Addr)
		return
	}
	m.WriteAddr(addr, n.Output)
}

func (e *Engine) commitSet(n *ladder.Node, m *mem.Bank) {
	if !n.Output {
		return
	}
	addr, err := mem.Parse(n.Addr)
	if err != nil {
		e.warnf("write", "SET "+n.Addr+": "+err.Error())
		return
	}
	if addr.Kind == mem.KindT || addr.Kind == mem.KindC {
		e.warnf("write", "SET cannot target a timer/counter address: "+n.Addr)
		return
	}
	m.WriteAddr(addr, true)
}

func (e *Engine) commitReset(n *ladder.Node, m *mem.Bank, timers *timer.Bank, counters *counter.Bank) {
	if !n.Output {
		return
	}
	addr, err := mem.Parse(n.Addr)
	if err != nil {
		e.warnf("write", "RESET "+n.Addr+": "+err.Error())
		return
	}
	switch addr.Kind {
	case mem.KindT:
		timers.ResetInstance(addr.Name)
	case mem.KindC:
		counters.ResetInstance(addr.Name)
	default:
		m.WriteAddr(addr, false)
	}
}

func findNodeByID(prog *ladder.Program, id int) *ladder.Node {
	for _, n := range prog.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
