package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/pipeline"
	"github.com/matzehuels/graphweave/pkg/source"
)

const defaultFragmentsFile = "fragments.json"

// acquireFlags control how fragments are collected from a graph service.
type acquireFlags struct {
	whole   bool
	refresh bool
	noCache bool
}

func (f *acquireFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.whole, "whole", false, "fetch the whole graph in one request instead of per-node fragments")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached responses")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// fetchCommand creates the fetch command for collecting fragments from a graph service.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output string
		flags  acquireFlags
	)

	cmd := &cobra.Command{
		Use:   "fetch [base-url]",
		Short: "Collect graph fragments from a graph service",
		Long: `Collect graph fragments from a graph service.

By default every node id is listed and each node's fragment is fetched
concurrently. Nodes whose fragment cannot be fetched are skipped. With --whole
the whole-graph endpoint is used instead.

The base URL defaults to source.base_url from the config file. The fragments
are written as a JSON array that 'layout' and 'render' accept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var baseURL string
			if len(args) == 1 {
				baseURL = args[0]
			}
			return c.runFetch(cmd.Context(), baseURL, output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultFragmentsFile, "output file")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, baseURL, output string, flags acquireFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	fragments, cacheHit, err := c.acquire(ctx, runner, baseURL, flags)
	if err != nil {
		return err
	}

	if err := source.WriteFile(output, fragments); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Fetched %d %s", len(fragments), plural(len(fragments), "fragment", "fragments"))
	printFile(output)
	printStats(0, 0, cacheHit)
	printNewline()
	printNextStep("Layout", appName+" layout "+output)
	return nil
}

// acquire fetches fragments from baseURL (or the configured base URL).
func (c *CLI) acquire(ctx context.Context, runner *pipeline.Runner, baseURL string, flags acquireFlags) ([]graph.Fragment, bool, error) {
	opts := c.Config.Source.Options(baseURL)
	if opts.BaseURL == "" {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "no base URL given and source.base_url is not configured")
	}
	opts.Logger = loggerFromContext(ctx)
	opts.Cache = c.httpCache(flags.noCache)
	opts.Refresh = flags.refresh

	client, err := source.NewClient(opts)
	if err != nil {
		return nil, false, err
	}

	prog := newProgress(opts.Logger)
	spinner := newSpinnerWithContext(ctx, "Fetching from "+client.BaseURL()+"...")
	spinner.Start()

	fragments, cacheHit, err := runner.AcquireWithCacheInfo(ctx, client, pipeline.AcquireOptions{
		Whole:   flags.whole,
		Refresh: flags.refresh,
	})
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return nil, false, fmt.Errorf("fetch %s: %w", client.BaseURL(), err)
	}
	spinner.Stop()
	prog.done("Fetched %d fragments", len(fragments))

	return fragments, cacheHit, ctx.Err()
}
