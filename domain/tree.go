package domain

import "sort"

// ItemNode is an item with its resolved children, produced by AssembleForest
// for rendering. Depth is 0 for roots and parent depth + 1 below.
type ItemNode struct {
	Item
	Depth    int         `json:"depth"`
	Children []*ItemNode `json:"children"`
}

// AssembleForest converts a flat set of items into a forest of nested nodes.
// Children are ordered by Order, then CreatedAt, then ID. An item whose
// parent is missing from the input set is treated as a root instead of being
// dropped; if the input contains a parent cycle the affected nodes are also
// surfaced as roots so the result stays renderable.
func AssembleForest(items []Item) []*ItemNode {
	nodes := make(map[string]*ItemNode, len(items))
	for i := range items {
		nodes[items[i].ID] = &ItemNode{Item: items[i], Children: []*ItemNode{}}
	}

	var roots []*ItemNode
	for _, node := range nodes {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok {
			// Dangling parent reference: keep the subtree visible.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Nodes trapped in a parent cycle are unreachable from any root; promote
	// one node per cycle so the walk below visits everything.
	reachable := markReachable(roots)
	if len(reachable) != len(nodes) {
		for _, node := range sortedByID(nodes) {
			if _, ok := reachable[node.ID]; ok {
				continue
			}
			detachFromParent(nodes, node)
			roots = append(roots, node)
			reachable = markReachable(roots)
			if len(reachable) == len(nodes) {
				break
			}
		}
	}

	sortSiblings(roots)
	setDepths(roots)
	return roots
}

// FlattenForest is the inverse of AssembleForest: a pre-order walk emitting
// the stored item records.
func FlattenForest(forest []*ItemNode) []Item {
	var out []Item
	stack := make([]*ItemNode, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, forest[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, node.Item)
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return out
}

func markReachable(roots []*ItemNode) map[string]struct{} {
	seen := make(map[string]struct{})
	stack := append([]*ItemNode(nil), roots...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[node.ID]; ok {
			continue
		}
		seen[node.ID] = struct{}{}
		stack = append(stack, node.Children...)
	}
	return seen
}

func detachFromParent(nodes map[string]*ItemNode, node *ItemNode) {
	if node.ParentID == nil {
		return
	}
	parent, ok := nodes[*node.ParentID]
	if !ok {
		return
	}
	for i, child := range parent.Children {
		if child.ID == node.ID {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}

func sortedByID(nodes map[string]*ItemNode) []*ItemNode {
	out := make([]*ItemNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

func sortSiblings(nodes []*ItemNode) {
	sort.Slice(nodes, func(a, b int) bool {
		if nodes[a].Order != nodes[b].Order {
			return nodes[a].Order < nodes[b].Order
		}
		if !nodes[a].CreatedAt.Equal(nodes[b].CreatedAt) {
			return nodes[a].CreatedAt.Before(nodes[b].CreatedAt)
		}
		return nodes[a].ID < nodes[b].ID
	})
}

func setDepths(roots []*ItemNode) {
	type frame struct {
		node  *ItemNode
		depth int
	}
	stack := make([]frame, 0, len(roots))
	for _, root := range roots {
		stack = append(stack, frame{root, 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		f.node.Depth = f.depth
		sortSiblings(f.node.Children)
		for _, child := range f.node.Children {
			stack = append(stack, frame{child, f.depth + 1})
		}
	}
}
