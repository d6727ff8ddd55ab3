package output

import (
	"fmt"
	"io"

	"github.com/procman-io/procman/internal/proctree"
)

// PrintTree writes the hierarchy with box-drawing connectors. Orphan roots
// (parent already gone) are annotated so they are not mistaken for the
// system root.
func PrintTree(w io.Writer, tree *proctree.Tree) {
	if tree == nil {
		fmt.Fprintln(w, "no process tree available")
		return
	}
	if tree.Root != nil {
		printNode(w, tree.Root, "", "")
	}
	for _, o := range tree.Orphans {
		printNode(w, o, "", " [orphan]")
	}
}

func printNode(w io.Writer, n *proctree.Node, prefix string, note string) {
	fmt.Fprintf(w, "%s%s (pid %d, %s, %.1f%%)%s\n",
		prefix, n.Process.Name, n.Process.PID, n.Process.State, n.Process.CPUPercent, note)
	printChildren(w, n, "")
}

func printChildren(w io.Writer, n *proctree.Node, prefix string) {
	for i, c := range n.Children {
		connector, childPrefix := "├─ ", prefix+"│  "
		if i == len(n.Children)-1 {
			connector, childPrefix = "└─ ", prefix+"   "
		}
		fmt.Fprintf(w, "%s%s%s (pid %d, %s, %.1f%%)\n",
			prefix, connector, c.Process.Name, c.Process.PID, c.Process.State, c.Process.CPUPercent)
		printChildren(w, c, childPrefix)
	}
}
