package ladder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// typeOrder is the substring-match priority used to resolve a node's type
// string. RESET is checked before SET because "RESET" contains "SET".
var typeOrder = []struct {
	substr string
	typ    NodeType
}{
	{"NETWORK", TypeNetwork},
	{"OPEN", TypeOpen},
	{"CLOSE", TypeClose},
	{"RISING", TypeRising},
	{"FALLING", TypeFalling},
	{"INVERT", TypeInvert},
	{"COIL", TypeCoil},
	{"RESET", TypeReset},
	{"SET", TypeSet},
	{"INSTRUCTION", TypeInstruction},
}

// resolveType maps a raw type string to a NodeType by substring match.
// An unrecognized type defaults to OPEN.
func resolveType(raw string) NodeType {
	upper := strings.ToUpper(raw)
	for _, entry := range typeOrder {
		if strings.Contains(upper, entry.substr) {
			return entry.typ
		}
	}
	return TypeOpen
}

// Warner receives a warning when Load silently truncates a program to fit
// its configured capacities.
type Warner func(phase, detail string)

// Load decodes a ProgramDocument into a Program: resolves node types,
// builds the forward-link index, assigns and canonicalizes network ids,
// and zeroes all scan scratch. maxNodes/maxLinks enforce the configured
// capacities.
//
// Capacity overflow (too many nodes, too many links, a node id outside
// [0,maxNodes)) is silent truncation, not a load failure: the first
// maxNodes nodes and first maxLinks links are kept, dropped nodes/links
// are reported through warn, and the program still loads. A malformed
// document — a duplicate node id, or a link referencing a node id that
// never appeared in the document at all — is a hard error, since that
// indicates a corrupt document rather than a program that simply doesn't
// fit.
func Load(doc ProgramDocument, maxNodes, maxLinks int, warn Warner) (*Program, error) {
	warnf := func(phase, detail string) {
		if warn != nil {
			warn(phase, detail)
		}
	}

	allIDs := make(map[int]bool, len(doc.Nodes))
	for _, rec := range doc.Nodes {
		allIDs[rec.ID] = true
	}

	nodeRecs := doc.Nodes
	if len(nodeRecs) > maxNodes {
		warnf("capacity", fmt.Sprintf("program has %d nodes, truncating to capacity %d", len(nodeRecs), maxNodes))
		nodeRecs = nodeRecs[:maxNodes]
	}

	byID := make(map[int]*Node, len(nodeRecs))
	nodes := make([]*Node, 0, len(nodeRecs))
	for _, rec := range nodeRecs {
		if rec.ID >= maxNodes || rec.ID < 0 {
			warnf("capacity", fmt.Sprintf("node id %d out of range (capacity %d), dropped", rec.ID, maxNodes))
			continue
		}
		if _, dup := byID[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %d", rec.ID)
		}
		n := &Node{
			ID:          rec.ID,
			NetworkID:   rec.NetworkID,
			Type:        resolveType(rec.Type),
			Addr:        rec.Addr,
			Tag:         rec.Tag,
			Instruction: rec.Instruction,
			Args:        rec.Args,
			Setpoint:    rec.Setpoint,
			X:           rec.X,
			Y:           rec.Y,
		}
		byID[rec.ID] = n
		nodes = append(nodes, n)
	}

	linkRecs := doc.LinkData
	if len(linkRecs) > maxLinks {
		warnf("capacity", fmt.Sprintf("program has %d links, truncating to capacity %d", len(linkRecs), maxLinks))
		linkRecs = linkRecs[:maxLinks]
	}

	links := make([]Link, 0, len(linkRecs))
	forward := make(map[int][]int)
	for _, rec := range linkRecs {
		_, fromOK := byID[rec.From]
		_, toOK := byID[rec.To]
		if !fromOK || !toOK {
			if allIDs[rec.From] && allIDs[rec.To] {
				warnf("capacity", fmt.Sprintf("link %d->%d dropped: endpoint truncated by capacity", rec.From, rec.To))
				continue
			}
			if !allIDs[rec.From] {
				return nil, fmt.Errorf("link references unknown source node %d", rec.From)
			}
			return nil, fmt.Errorf("link references unknown target node %d", rec.To)
		}
		links = append(links, Link{From: rec.From, To: rec.To, FromPort: rec.FromPort, ToPort: rec.ToPort})
		forward[rec.From] = append(forward[rec.From], rec.To)
	}

	prog := &Program{Nodes: nodes, Links: links, Forward: forward}

	needsAssignment := false
	for _, n := range nodes {
		trimmed := strings.TrimSpace(n.NetworkID)
		if trimmed == "" || trimmed == "-1" {
			needsAssignment = true
			break
		}
	}
	if needsAssignment {
		AssignNetworkIDs(prog)
	}
	for _, n := range nodes {
		n.NetworkID = CanonicalNetworkID(n.NetworkID)
	}

	prog.NetworkIDs = distinctNetworkIDs(nodes)
	prog.ZeroAllScratch()

	return prog, nil
}

// distinctNetworkIDs collects the distinct canonical network ids present in
// the program and orders them by numeric suffix ("N0" < "N1" < ... < "N10")
// rather than lexicographically, so that execution order matches the
// natural network numbering instead of string order ("N10" < "N2").
// Non-"N<n>" ids sort lexicographically after all numeric ids.
func distinctNetworkIDs(nodes []*Node) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, n := range nodes {
		if !seen[n.NetworkID] {
			seen[n.NetworkID] = true
			out = append(out, n.NetworkID)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ni, oki := networkSuffix(out[i])
		nj, okj := networkSuffix(out[j])
		if oki && okj {
			return ni < nj
		}
		if oki != okj {
			return oki
		}
		return out[i] < out[j]
	})
	return out
}

// networkSuffix extracts the numeric suffix of an "N<n>" id.
func networkSuffix(id string) (int, bool) {
	if !strings.HasPrefix(id, "N") {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
