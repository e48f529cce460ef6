package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/pipeline"
	"github.com/matzehuels/graphweave/pkg/source"
)

// layoutCommand creates the layout command for computing layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [input.json]",
		Short: "Compute a layout from graph fragments",
		Long: `Compute a layout from graph fragments.

The input may be a whole graph ({"nodes": [...], "edges": [...]}), a single
fragment ({"this": ..., "neighbors": [...], "edges": [...]}) or an array of
fragments as written by 'fetch'. Fragments are merged, simulated and projected
into a layout.json file that 'visualize' renders.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Refresh = refresh
			flags.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached layout exists")
	flags.register(cmd)

	return cmd
}

// runLayout loads the fragments, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	fragments, err := source.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, stats := runner.Aggregate(ctx, fragments)
	logger := loggerFromContext(ctx)
	logger.Debug("aggregated", "fragments", stats.Fragments, "nodes", g.NodeCount(), "edges", g.EdgeCount(),
		"duplicate_nodes", stats.DuplicateNodes, "duplicate_edges", stats.DuplicateEdges)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %d nodes...", g.NodeCount()))
	spinner.Start()

	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + layoutSuffix + ".json"
	}

	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(layout.Nodes), len(layout.Edges), cacheHit)
	printDangling(len(g.Dangling()))
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
