package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps <commit> [range]",
	Short: "Show what one commit depends on, and what depends on it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDeps,
}

func init() {
	addAnalysisFlags(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	rangeExpr := ""
	if len(args) > 1 {
		rangeExpr = args[1]
	}

	res, err := runAnalysis(cmd.Context(), cmd, rangeExpr)
	if err != nil {
		return err
	}

	sha, err := resolveInRange(res, args[0])
	if err != nil {
		return err
	}

	labels := make(map[string]string, len(res.commits))
	for _, c := range res.commits {
		labels[c.SHA] = c.Label()
	}

	fmt.Println(labels[sha])

	direct, err := res.graph.DependenciesOf(sha)
	if err != nil {
		return err
	}
	if len(direct) == 0 {
		fmt.Println("\nDepends on: nothing in range")
	} else {
		fmt.Println("\nDepends on:")
		for _, dep := range direct {
			edges, _ := res.graph.EdgesFor(dep)
			for _, e := range edges {
				if e.From == dep && e.To == sha {
					fmt.Printf("  %s  (%s)\n", labels[dep], witnessSummary(e.Witnesses, 4))
				}
			}
		}
	}

	directSet := make(map[string]bool, len(direct))
	for _, dep := range direct {
		directSet[dep] = true
	}
	var indirect []string
	for dep := range res.graph.TransitiveClosure()[sha] {
		if !directSet[dep] {
			indirect = append(indirect, dep)
		}
	}
	if len(indirect) > 0 {
		fmt.Println("\nTransitively:")
		for _, c := range res.commits {
			for _, dep := range indirect {
				if dep == c.SHA {
					fmt.Printf("  %s\n", labels[dep])
				}
			}
		}
	}

	dependents, err := res.graph.DependentsOf(sha)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		fmt.Println("\nDepended on by:")
		for _, d := range dependents {
			fmt.Printf("  %s\n", labels[d])
		}
	}
	return nil
}
