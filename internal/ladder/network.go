package ladder

import (
	"strconv"
	"strings"
)

// AssignNetworkIDs fills in missing networkId fields by tracing reachability
// from each NETWORK-type source node through forward links.
//
// For each NETWORK node (in document order) a network id is picked: the
// node's own addr if non-empty and not the literal "N" or a negative
// integer, otherwise a freshly minted "N<k>". That id is then flooded to
// every node transitively reachable from the NETWORK node via forward
// links (full reachability, not just the immediate neighbors — the
// network-id assigner must see chains of any length, not only one hop).
// Any node left unassigned after the flood gets a fresh "N<k>".
func AssignNetworkIDs(p *Program) {
	next := 0
	mint := func() string {
		id := "N" + strconv.Itoa(next)
		next++
		return id
	}

	assigned := make(map[int]bool)

	for _, n := range p.Nodes {
		if n.Type != TypeNetwork {
			continue
		}

		id := strings.TrimSpace(n.Addr)
		if id == "" || id == "N" || isNegativeInteger(id) {
			id = mint()
		}

		n.NetworkID = id
		assigned[n.ID] = true

		for _, reached := range reachableFrom(p, n.ID) {
			if target := findNode(p.Nodes, reached); target != nil {
				target.NetworkID = id
				assigned[reached] = true
			}
		}
	}

	for _, n := range p.Nodes {
		if !assigned[n.ID] {
			n.NetworkID = mint()
			assigned[n.ID] = true
		}
	}
}

// reachableFrom returns every node id transitively reachable from start via
// forward links, not including start itself.
func reachableFrom(p *Program, start int) []int {
	visited := map[int]bool{start: true}
	queue := []int{start}
	out := make([]int, 0)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range p.Forward[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

func findNode(nodes []*Node, id int) *Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func isNegativeInteger(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n < 0
}

// CanonicalNetworkID normalizes a raw networkId string: trims whitespace;
// empty or "-1" maps to "-1"; a non-negative integer maps to "N<n>"; a
// negative integer maps to "-1"; anything else is uppercased.
func CanonicalNetworkID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "-1" {
		return "-1"
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n >= 0 {
			return "N" + strconv.Itoa(n)
		}
		return "-1"
	}
	return strings.ToUpper(trimmed)
}
