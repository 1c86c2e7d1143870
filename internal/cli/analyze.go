package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/pkg/cfg"
	"github.com/flowlens/flowlens/pkg/pipeline"
)

// analyzeCommand creates the analyze command for building DJ-graphs.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "analyze [cfg.json]",
		Short: "Build the DJ-graph for a control-flow graph",
		Long: `Build the DJ-graph for a control-flow graph.

The analyze command takes a CFG document (JSON with nodes, edges, and an
entry block), computes its dominator tree, and overlays the join edges:
dominance edges mirror the tree, back-joins close loops, cross-joins are
everything else.

Results are cached locally for faster subsequent runs.

Use 'render' afterwards to turn the result into SVG or PNG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatJSON)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Analyze flags
	cmd.Flags().StringVar(&opts.Entry, "entry", "", "entry vertex (overrides the document's entry)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot (comma-separated)")

	return cmd
}

// runAnalyze loads the CFG, runs the pipeline, and writes the outputs.
func (c *CLI) runAnalyze(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := cfg.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load CFG %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Building DJ-graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return fmt.Errorf("analyze: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Classified %d edges across %d vertices", result.Stats.EdgeCount, result.Stats.VertexCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Analysis complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.VertexCount, result.Stats.EdgeCount, result.CacheInfo.AnalyzeHit)
	printKindStats(result.Stats.DominanceCount, result.Stats.BackJoinCount, result.Stats.CrossJoinCount)
	printNewline()
	if len(paths) > 0 {
		printNextStep("Render", appName+" render "+paths[0])
	}

	return nil
}
