// Package proctree derives a parent/child hierarchy from a flat process
// table. Trees are built fresh per call and never mutated in place.
package proctree

import (
	"sort"

	"github.com/procman-io/procman/pkg/model"
)

// Node owns one process record and its direct children, in pid order.
// Nodes carry no back-reference to their parent; traversal is top-down.
type Node struct {
	Process  model.Process
	Children []*Node
}

// Tree is the hierarchy rooted at a designated pid. Orphans are processes
// with no reachable parent: their declared parent was absent from the table
// (exited and reaped before the snapshot), or they have no parent at all
// (PPID 0, e.g. kthreadd) without being the designated root. They are
// surfaced as extra top-level roots so no process disappears from the
// hierarchical view.
type Tree struct {
	Root    *Node
	Orphans []*Node
}

// Build constructs the tree for the given table and root pid. It returns nil
// only when there is nothing to show at all: every process is either attached
// under the root or surfaced as an orphan root, so nil effectively means an
// empty table.
//
// The walk uses an explicit stack and a visited set, so malformed parent
// links (cycles) cannot recurse or loop unboundedly; any component left
// unreachable by such links is promoted to an orphan root rather than
// silently dropped.
func Build(table map[int]model.Process, rootPID int) *Tree {
	if len(table) == 0 {
		return nil
	}

	children := make(map[int][]model.Process)
	var extraRoots []model.Process
	for pid, p := range table {
		if pid == rootPID {
			continue
		}
		// PPID 0 means no parent at all, and pid 0 is never in any table, so
		// a parentless process that is not the designated root surfaces as an
		// extra root just like one whose parent exited.
		if p.PPID == 0 {
			extraRoots = append(extraRoots, p)
			continue
		}
		if _, ok := table[p.PPID]; !ok {
			extraRoots = append(extraRoots, p)
			continue
		}
		children[p.PPID] = append(children[p.PPID], p)
	}
	for ppid := range children {
		kids := children[ppid]
		sort.Slice(kids, func(i, j int) bool { return kids[i].PID < kids[j].PID })
	}
	sort.Slice(extraRoots, func(i, j int) bool { return extraRoots[i].PID < extraRoots[j].PID })

	tree := &Tree{}
	visited := make(map[int]bool, len(table))

	if rootProc, ok := table[rootPID]; ok {
		tree.Root = &Node{Process: rootProc}
		attach(tree.Root, children, visited)
	}
	for _, o := range extraRoots {
		if visited[o.PID] {
			continue
		}
		n := &Node{Process: o}
		attach(n, children, visited)
		tree.Orphans = append(tree.Orphans, n)
	}

	// Anything still unvisited sits in a component with no root at all
	// (mutually-cyclic parent links). Promote each component by its lowest
	// pid so it stays visible.
	var leftover []int
	for pid := range table {
		if !visited[pid] {
			leftover = append(leftover, pid)
		}
	}
	sort.Ints(leftover)
	for _, pid := range leftover {
		if visited[pid] {
			continue
		}
		n := &Node{Process: table[pid]}
		attach(n, children, visited)
		tree.Orphans = append(tree.Orphans, n)
	}

	sort.Slice(tree.Orphans, func(i, j int) bool {
		return tree.Orphans[i].Process.PID < tree.Orphans[j].Process.PID
	})

	if tree.Root == nil && len(tree.Orphans) == 0 {
		return nil
	}
	return tree
}

func attach(root *Node, children map[int][]model.Process, visited map[int]bool) {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.Process.PID] {
			continue
		}
		visited[n.Process.PID] = true

		for _, c := range children[n.Process.PID] {
			if visited[c.PID] {
				continue
			}
			child := &Node{Process: c}
			n.Children = append(n.Children, child)
			stack = append(stack, child)
		}
	}
}

// Roots returns the top-level nodes: the designated root first (when
// present), then any orphan roots.
func (t *Tree) Roots() []*Node {
	if t == nil {
		return nil
	}
	var roots []*Node
	if t.Root != nil {
		roots = append(roots, t.Root)
	}
	return append(roots, t.Orphans...)
}

// Find locates the node for pid anywhere in the tree, or nil.
func (t *Tree) Find(pid int) *Node {
	if t == nil {
		return nil
	}
	stack := t.Roots()
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Process.PID == pid {
			return n
		}
		stack = append(stack, n.Children...)
	}
	return nil
}

// DescendantPIDs lists every pid below the node in discovery (preorder)
// order. Applying an action over the reversed slice works deepest-first.
func (n *Node) DescendantPIDs() []int {
	var pids []int
	walkStack := reverseNodes(n.Children)
	for len(walkStack) > 0 {
		cur := walkStack[len(walkStack)-1]
		walkStack = walkStack[:len(walkStack)-1]
		pids = append(pids, cur.Process.PID)
		walkStack = append(walkStack, reverseNodes(cur.Children)...)
	}
	return pids
}

// reverseNodes returns a reversed copy so stack-based traversal pops
// children in their original order.
func reverseNodes(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}
