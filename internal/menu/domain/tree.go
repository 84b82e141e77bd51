package domain

import "sort"

// BuildTree converts a flat menu item list into an ordered forest.
//
// Rules:
//   - an item whose ParentID is empty or does not resolve to a present ID
//     becomes a root (the record store performs no referential-integrity check),
//   - sibling groups, roots included, are sorted ascending by Order; ties keep
//     the original fetch order,
//   - a cyclic ParentID chain is not followed: the edge closing the cycle is
//     dropped and its item becomes a root, so the forest is always finite and
//     contains every input item exactly once.
func BuildTree(items []MenuItem) []*Node {
	byID := make(map[string]int, len(items))
	for i, it := range items {
		if _, ok := byID[it.ID]; !ok {
			byID[it.ID] = i
		}
	}

	// Effective parent per input index; -1 means root.
	parent := make([]int, len(items))
	for i, it := range items {
		p, ok := byID[it.ParentID]
		if it.ParentID == "" || !ok || p == i {
			parent[i] = -1
		} else {
			parent[i] = p
		}
	}

	// Iterative three-state walk over parent chains. A back edge into the chain
	// currently being walked closes a cycle and is broken on the spot.
	const (
		unseen = iota
		walking
		settled
	)
	state := make([]int, len(items))
	for i := range items {
		if state[i] != unseen {
			continue
		}
		var path []int
		cur := i
		for state[cur] == unseen {
			state[cur] = walking
			path = append(path, cur)
			p := parent[cur]
			if p < 0 {
				break
			}
			if state[p] == walking {
				parent[cur] = -1
				break
			}
			cur = p
		}
		for _, n := range path {
			state[n] = settled
		}
	}

	nodes := make([]*Node, len(items))
	for i, it := range items {
		nodes[i] = &Node{MenuItem: it}
	}

	// Attach in input order so stable sorting preserves fetch order on ties.
	roots := make([]*Node, 0, len(items))
	for i, n := range nodes {
		if parent[i] < 0 {
			roots = append(roots, n)
		} else {
			pn := nodes[parent[i]]
			pn.Children = append(pn.Children, n)
		}
	}

	sortSiblings(roots)
	for _, n := range nodes {
		if len(n.Children) > 1 {
			sortSiblings(n.Children)
		}
	}

	return roots
}

func sortSiblings(ns []*Node) {
	sort.SliceStable(ns, func(a, b int) bool { return ns[a].Order < ns[b].Order })
}
