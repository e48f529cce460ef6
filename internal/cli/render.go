package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/pipeline"
	"github.com/matzehuels/graphweave/pkg/render"
	"github.com/matzehuels/graphweave/pkg/source"
)

// defaultURLBase names the output of a render whose input is a URL.
const defaultURLBase = "graph"

// renderCommand creates the render command, which runs the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		detailed   bool
		refresh    bool
		acquire    acquireFlags
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [input.json | base-url]",
		Short: "Fetch, lay out and render a graph in one step",
		Long: `Fetch, lay out and render a graph in one step.

The input is either a fragment or graph file, or the base URL of a graph
service (http:// or https://). The layout and every requested format are
written next to the input, or to --output.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions()
			opts.Formats = formats
			opts.Detailed = detailed
			opts.Refresh = refresh || acquire.refresh
			flags.apply(cmd, &opts)
			return c.runRender(cmd.Context(), args[0], opts, output, acquire)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple), - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include descriptions and tags in node labels")
	registerFormatCompletion(cmd)
	acquire.register(cmd)
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, flags acquireFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var fragments []graph.Fragment
	name := input
	if isURL(input) {
		fragments, _, err = c.acquire(ctx, runner, input, flags)
		name = defaultURLBase
	} else {
		fragments, err = source.ReadFile(input)
	}
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Running pipeline...")
	spinner.Start()

	result, err := runner.Execute(ctx, fragments, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	loggerFromContext(ctx).Debug("pipeline finished",
		"run", result.RunID,
		"aggregate", result.Stats.AggregateTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     name,
		output:    output,
		cacheHit:  result.CacheInfo.LayoutHit,
		nodes:     result.Stats.NodeCount,
		edges:     result.Stats.EdgeCount,
	}); err != nil {
		return err
	}
	if output != stdoutPath {
		printDangling(result.Stats.DanglingCount)
	}
	return nil
}

// parseFormats parses a comma-separated format list. An empty list selects SVG.
func parseFormats(s string) ([]string, error) {
	formats, err := render.ParseFormats(s)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		return []string{string(render.FormatSVG)}, nil
	}
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
