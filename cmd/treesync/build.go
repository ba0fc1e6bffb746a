package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aatuh/treesync/internal/adapters/fs"
	"github.com/aatuh/treesync/internal/adapters/httpscan"
	"github.com/aatuh/treesync/internal/app"
	"github.com/aatuh/treesync/internal/filter"
	"github.com/aatuh/treesync/internal/metrics"
	"github.com/aatuh/treesync/internal/pathutil"
	"github.com/aatuh/treesync/internal/scan"
	"github.com/aatuh/treesync/internal/viewstate"
)

type buildOptions struct {
	input   string
	local   bool
	follow  bool
	format  string
	rules   []ruleSpec
	noState bool

	metricsFile string
}

func newBuildCmd(c *cli) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan a project and print its tree",
		Long: "Build reads a scan result from a file, stdin, a listing service or the local disk,\n" +
			"arranges it into a sorted tree and prints it. Entries that could not be placed\n" +
			"are summarized on stderr.",
		Example: "  treesync build --input scan.json --root /srv/project\n" +
			"  treesync build --local --root . --scan-path src --exclude-file .gitignore\n" +
			"  treesync build --endpoint http://scanner:8080 --root /srv/project --format json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runBuild(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.String("root", "", "project root the scanned paths are relative to")
	flags.StringSlice("scan-path", nil, "path to scan, relative to the root (repeatable)")
	flags.String("endpoint", "", "base URL of a listing service")
	flags.String("token", "", "bearer token for the listing service")
	flags.Duration("timeout", 0, "listing service request timeout")
	flags.String("locale", "", "collation locale for names, e.g. de or sv")
	flags.StringVar(&opts.input, "input", "", "read a scan result from a file ('-' for stdin)")
	flags.BoolVar(&opts.local, "local", false, "scan the local disk")
	flags.BoolVar(&opts.follow, "follow", false, "follow symbolic links when scanning the local disk")
	flags.StringVar(&opts.format, "format", formatText, "output format: text, json or flat")
	flags.BoolVar(&opts.noState, "all", false, "ignore the view state and expand every directory")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics of this run to a textfile")
	flags.Var(ruleFlag{Mode: filter.ModeBlacklist, Specs: &opts.rules}, "exclude-file", "gitignore-style file of paths to exclude (repeatable)")
	flags.Var(ruleFlag{Mode: filter.ModeWhitelist, Specs: &opts.rules}, "include-file", "gitignore-style file of paths to include (repeatable)")
	return cmd
}

func (c *cli) runBuild(ctx context.Context, opts *buildOptions) error {
	if err := validFormat(opts.format); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.log("build")

	root := c.settings.Root
	if opts.local {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve root %q: %w", root, err)
		}
		root = filepath.ToSlash(abs)
	}
	root = pathutil.Normalize(root)

	pathFilter, err := buildFilter(root, opts.rules, c.settings.StateFile)
	if err != nil {
		return err
	}
	if modes := formatRuleModes(opts.rules); modes != "" {
		log.WithField("modes", modes).Debug("rules loaded")
	}

	scanner, err := c.scanner(opts, pathFilter)
	if err != nil {
		return err
	}
	tag, err := c.locale()
	if err != nil {
		return err
	}

	synchronizer, err := app.New(app.Options{
		Scanner: scanner,
		Filter:  pathFilter,
		Logger:  log,
		Locale:  tag,
	})
	if err != nil {
		return err
	}

	snap, err := synchronizer.Refresh(ctx, scan.Request{ProjectRoot: root, ScanPaths: c.settings.ScanPaths})
	if opts.metricsFile != "" {
		if werr := metrics.WriteFile(opts.metricsFile); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return err
	}
	if snap.Filtered > 0 {
		log.WithField("filtered", snap.Filtered).Info("entries excluded by rules")
	}

	out := c.stdout
	switch opts.format {
	case formatJSON:
		err = writeJSON(out, snap.Result)
	case formatFlat:
		err = writeJSON(out, flatEntries(snap.Result.Nodes))
	default:
		state := viewstate.New(math.MaxInt)
		if !opts.noState {
			state, err = viewstate.Load(c.settings.StateFile, c.settings.ExpandDepth)
			if err != nil {
				return err
			}
			// A partial scan cannot tell a vanished directory from an unscanned one.
			if len(c.settings.ScanPaths) == 0 {
				if err := c.pruneState(state, snap); err != nil {
					return err
				}
			}
		}
		err = renderText(out, state.Visible(snap.Result.Nodes))
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return writeDiagnostics(c.stderr, snap.Result.Diagnostics)
}

func (c *cli) pruneState(state *viewstate.State, snap app.Snapshot) error {
	removed := state.Prune(snap.Result.Nodes)
	if removed == 0 {
		return nil
	}
	if err := state.Save(c.settings.StateFile); err != nil {
		return err
	}
	c.log("state").WithField("removed", removed).Debug("dropped view state of vanished directories")
	return nil
}

func (c *cli) scanner(opts *buildOptions, pathFilter filter.PathFilter) (scan.Scanner, error) {
	switch {
	case opts.input != "":
		return fs.FileScanner{Path: opts.input, Stdin: c.stdin}, nil
	case opts.local:
		return fs.LocalScanner{Filter: pathFilter, Follow: opts.follow}, nil
	case c.settings.Endpoint != "":
		client, err := httpscan.New(httpscan.Config{
			BaseURL:  c.settings.Endpoint,
			Token:    c.settings.Token,
			Timeout:  c.settings.Timeout,
			Attempts: c.settings.RetryAttempts,
			Delay:    c.settings.RetryDelay,
			Logger:   c.log("httpscan"),
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("no scan source: use --input, --local or --endpoint")
	}
}
