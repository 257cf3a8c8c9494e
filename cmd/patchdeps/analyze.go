package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/patchdeps/patchdeps/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [range]",
	Short: "Analyze a commit range and render the dependency report",
	Long: `Analyzes the given revision range (default: all of HEAD's first-parent
history) and renders the textual dependency relation.

Formats:
  matrix  one row per commit; X marks a later commit depending on this row
  list    per commit, the commits it depends on
  dot     Graphviz digraph, pipe into dot -Tsvg
  json    machine-readable report`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().StringP("output", "o", "", "output format: list, matrix, dot or json")
	analyzeCmd.Flags().Bool("reduce", false, "omit transitively implied edges from list/dot output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rangeExpr := ""
	if len(args) > 0 {
		rangeExpr = args[0]
	}

	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = cfg.Output
	}
	reduce, _ := cmd.Flags().GetBool("reduce")
	if !cmd.Flags().Changed("reduce") {
		reduce = cfg.Reduce
	}

	formatter, err := output.NewFormatter(output.Format(format))
	if err != nil {
		return err
	}

	res, err := runAnalysis(cmd.Context(), cmd, rangeExpr)
	if err != nil {
		return err
	}

	return formatter.Format(buildReport(res, output.Format(format), reduce), os.Stdout)
}
