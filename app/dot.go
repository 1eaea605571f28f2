package app

import (
	"fmt"
	"io"
)

// WriteDOT writes the runnable dependency graph in Graphviz format, with one
// cluster per task.
func (g *Graph) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph Runnable {\n\tcompound=true;"); err != nil {
		return err
	}

	for _, t := range g.Tasks {
		fmt.Fprintf(w, "\tsubgraph cluster%d {\n", t.ID)
		fmt.Fprintf(w, "\t\tlabel=\"%s\\n%s\";\n", t.Name, t.Activation.Kind)

		for _, id := range t.Calls {
			c := g.Call(id)
			fmt.Fprintf(w, "\t\tc%d [label=\"%s\\nprio=%d\"];\n",
				c.ID, c.ClassName, c.Priority)
		}

		fmt.Fprintln(w, "\t}")
	}

	for _, c := range g.Calls {
		for _, s := range c.Successors {
			fmt.Fprintf(w, "\tc%d -> c%d;\n", c.ID, s)
		}
	}

	_, err := fmt.Fprintln(w, "}")

	return err
}
