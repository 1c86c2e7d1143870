package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/pkg/cfg"
	"github.com/flowlens/flowlens/pkg/dom"
)

// domtreeCommand creates the domtree command, a debugging aid that prints
// the dominator tree without building the full DJ-graph.
func (c *CLI) domtreeCommand() *cobra.Command {
	var (
		entry  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "domtree [cfg.json]",
		Short: "Print the dominator tree of a control-flow graph",
		Long: `Print the dominator tree of a control-flow graph.

Each vertex is indented under its immediate dominator. Vertices not
reachable from the entry are listed separately, since they have no place
in the tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDomtree(args[0], entry, output)
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "", "entry vertex (overrides the document's entry)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runDomtree(input, entryFlag, output string) error {
	g, err := cfg.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load CFG %s: %w", input, err)
	}

	entry := entryFlag
	if entry == "" {
		var ok bool
		entry, ok = g.Entry()
		if !ok {
			return fmt.Errorf("graph has no entry vertex (use --entry)")
		}
	} else if !g.HasVertex(entry) {
		return fmt.Errorf("entry %q: %w", entry, cfg.ErrUnknownVertex)
	}

	tree := dom.Compute[string](g, entry)

	out, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()
	writeDomTree(out, tree)

	if missing := unreachableVertices(g, tree); len(missing) > 0 {
		printNewline()
		printWarning("%d vertices unreachable from %s:", len(missing), entry)
		for _, v := range missing {
			printDetail("%s", v)
		}
	}
	return nil
}

// unreachableVertices lists the vertices the dominator tree does not
// cover, sorted so the report is stable across runs.
func unreachableVertices(g *cfg.Graph[string], tree *dom.Tree[string]) []string {
	var out []string
	for _, v := range cfg.SortedVertices[string](g) {
		if !tree.Reachable(v) {
			out = append(out, v)
		}
	}
	return out
}

// writeDomTree prints the tree depth-first, children indented under their
// immediate dominator. An explicit stack keeps deep chains from blowing
// the goroutine stack.
func writeDomTree(w io.Writer, tree *dom.Tree[string]) {
	type frame struct {
		v     string
		depth int
	}
	stack := []frame{{tree.Root(), 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", f.depth), f.v)

		children := tree.Children(f.v)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}
