package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patchdeps/patchdeps/internal/graph"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <a> <b> [range]",
	Short: "Check whether two commits can swap apply order",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runReorder,
}

func init() {
	addAnalysisFlags(reorderCmd)
}

func runReorder(cmd *cobra.Command, args []string) error {
	rangeExpr := ""
	if len(args) > 2 {
		rangeExpr = args[2]
	}

	res, err := runAnalysis(cmd.Context(), cmd, rangeExpr)
	if err != nil {
		return err
	}

	a, err := resolveInRange(res, args[0])
	if err != nil {
		return err
	}
	b, err := resolveInRange(res, args[1])
	if err != nil {
		return err
	}

	labels := make(map[string]string, len(res.commits))
	for _, c := range res.commits {
		labels[c.SHA] = c.Label()
	}

	safe, err := res.graph.IsReorderSafe(a, b)
	if err != nil {
		return err
	}
	if safe {
		fmt.Printf("✅ %s and %s can be reordered\n", labels[a], labels[b])
		return nil
	}

	pa, _ := res.graph.Position(a)
	pb, _ := res.graph.Position(b)
	earlier, later := a, b
	if pa > pb {
		earlier, later = b, a
	}

	fmt.Printf("⚠️  %s depends on %s\n", labels[later], labels[earlier])
	if res.graph.HasEdge(earlier, later) {
		edges, _ := res.graph.EdgesFor(later)
		for _, e := range edges {
			if e.From == earlier && e.To == later {
				fmt.Printf("    directly, via %s\n", witnessSummary(e.Witnesses, 4))
			}
		}
		return nil
	}
	if path := res.graph.DependencyPath(later, earlier); path != nil {
		steps := make([]string, len(path))
		for i, sha := range path {
			steps[i] = labels[sha]
		}
		fmt.Printf("    through: %s\n", strings.Join(steps, " -> "))
	}
	return nil
}

func witnessSummary(ws []graph.Witness, max int) string {
	parts := make([]string, 0, max+1)
	for i, w := range ws {
		if i == max {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%s:%d", w.Path, w.Line))
	}
	return strings.Join(parts, ", ")
}
