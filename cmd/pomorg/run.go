package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pomorg/internal/cache"
	"pomorg/internal/config"
	"pomorg/internal/diag"
	"pomorg/internal/diagfmt"
	"pomorg/internal/pipeline"
)

const cacheApp = "pomorg"

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	skipColor = color.New(color.FgYellow)
	warnColor = color.New(color.FgYellow, color.Bold)
)

func addRunFlags(cmd *cobra.Command, withSort bool) {
	if withSort {
		cmd.Flags().Bool("no-sort", false, "keep dependency order")
	}
	cmd.Flags().Bool("no-tidy", false, "skip the external formatter")
	cmd.Flags().Bool("no-cache", false, "process manifests even when the last run left them unchanged")
	cmd.Flags().Int("jobs", 0, "max parallel manifests (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type runFlags struct {
	noSort   bool
	noTidy   bool
	noCache  bool
	jobs     int
	jobsSet  bool
	ui       uiMode
	quiet    bool
	timings  bool
	config   string
	maxDiags int
	diagFmt  string
}

func readRunFlags(cmd *cobra.Command) (runFlags, error) {
	var (
		fl  runFlags
		err error
	)
	if cmd.Flags().Lookup("no-sort") != nil {
		if fl.noSort, err = cmd.Flags().GetBool("no-sort"); err != nil {
			return fl, fmt.Errorf("failed to get no-sort flag: %w", err)
		}
	}
	if fl.noTidy, err = cmd.Flags().GetBool("no-tidy"); err != nil {
		return fl, fmt.Errorf("failed to get no-tidy flag: %w", err)
	}
	if fl.noCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return fl, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if fl.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return fl, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if fl.jobs < 0 {
		return fl, fmt.Errorf("--jobs must not be negative")
	}
	fl.jobsSet = cmd.Flags().Changed("jobs")
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fl, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if fl.ui, err = readUIMode(uiFlag); err != nil {
		return fl, err
	}

	root := cmd.Root().PersistentFlags()
	if fl.quiet, err = root.GetBool("quiet"); err != nil {
		return fl, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if fl.timings, err = root.GetBool("timings"); err != nil {
		return fl, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if fl.config, err = root.GetString("config"); err != nil {
		return fl, fmt.Errorf("failed to get config flag: %w", err)
	}
	if fl.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return fl, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if fl.diagFmt, err = root.GetString("diagnostics-format"); err != nil {
		return fl, fmt.Errorf("failed to get diagnostics-format flag: %w", err)
	}
	switch fl.diagFmt {
	case "short", "pretty", "json":
	default:
		return fl, fmt.Errorf("invalid --diagnostics-format value %q (expected short|pretty|json)", fl.diagFmt)
	}
	return fl, nil
}

// settings resolves the configuration for each manifest: the --config file
// for all of them, or the nearest .pomorg.toml above each one.
type settings struct {
	explicit *config.Config
	byDir    map[string]config.Config
	caches   map[string]*cache.Cache
	warn     io.Writer
}

func newSettings(path string, warn io.Writer) (*settings, error) {
	s := &settings{
		byDir:  make(map[string]config.Config),
		caches: make(map[string]*cache.Cache),
		warn:   warn,
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		s.explicit = &cfg
	}
	return s, nil
}

func (s *settings) forManifest(manifest string) (config.Config, error) {
	if s.explicit != nil {
		return *s.explicit, nil
	}
	dir := filepath.Dir(manifest)
	if cfg, ok := s.byDir[dir]; ok {
		return cfg, nil
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return config.Config{}, err
	}
	s.byDir[dir] = cfg
	return cfg, nil
}

// cacheFor opens the run cache for cfg. A cache that cannot be opened is
// reported once and then treated as disabled.
func (s *settings) cacheFor(cfg config.Config) *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if c, ok := s.caches[cfg.Cache.Dir]; ok {
		return c
	}
	var (
		c   *cache.Cache
		err error
	)
	if cfg.Cache.Dir != "" {
		c, err = cache.OpenDir(cfg.Cache.Dir)
	} else {
		c, err = cache.Open(cacheApp)
	}
	if err != nil {
		fmt.Fprintf(s.warn, "%s cache disabled: %v\n", warnColor.Sprint("warning:"), err)
		c = nil
	}
	s.caches[cfg.Cache.Dir] = c
	return c
}

func runCommand(cmd *cobra.Command, args []string, command pipeline.Command) error {
	fl, err := readRunFlags(cmd)
	if err != nil {
		return err
	}
	paths, err := resolveManifests(args)
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	set, err := newSettings(fl.config, stderr)
	if err != nil {
		return err
	}

	reqs := make([]pipeline.Request, 0, len(paths))
	bags := make([]*diag.Bag, 0, len(paths))
	jobs := fl.jobs
	for i, path := range paths {
		cfg, err := set.forManifest(path)
		if err != nil {
			return err
		}
		if fl.noSort {
			cfg.Organize.Sort = false
		}
		if fl.noTidy {
			cfg.Tidy.Enabled = false
		}
		if !fl.jobsSet && i == 0 {
			jobs = cfg.Run.Jobs
		}

		req := pipeline.Request{
			Path:       path,
			Command:    command,
			Sort:       cfg.Organize.Sort,
			ConfigHash: cfg.Hash(),
		}
		if cfg.Tidy.Enabled {
			req.Tidy = cfg.TidyRunner()
		}
		if !fl.noCache {
			req.Cache = set.cacheFor(cfg)
		}
		bag := diag.NewBag(fl.maxDiags)
		req.Reporter = diag.BagReporter{Bag: bag}
		reqs = append(reqs, req)
		bags = append(bags, bag)
	}

	ctx := cmd.Context()
	useTUI := shouldUseTUI(fl.ui, len(reqs))
	var (
		results []pipeline.Result
		runErr  error
	)
	if useTUI {
		results, runErr = runWithUI(ctx, "pomorg "+string(command), reqs, jobs)
	} else {
		results, runErr = pipeline.RunAll(ctx, reqs, jobs)
	}

	for i, res := range results {
		if err := printDiagnostics(stderr, fl.diagFmt, bags[i], res); err != nil {
			return err
		}
		if !fl.quiet && !useTUI {
			printStatus(stdout, res)
		}
	}
	if fl.timings {
		printStageTimings(stdout, results)
	}
	if runErr != nil {
		dumpTrace(cmd)
	}
	return runErr
}

func printDiagnostics(out io.Writer, format string, bag *diag.Bag, res pipeline.Result) error {
	if bag == nil || bag.Len() == 0 || res.Files == nil {
		return nil
	}
	bag.Sort()
	switch format {
	case "json":
		return diagfmt.JSON(out, bag, res.Files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	case "pretty":
		return diagfmt.Pretty(out, bag, res.Files, diagfmt.PrettyOpts{
			Color:      !color.NoColor,
			PathMode:   diagfmt.PathModeRelative,
			ShowNotes:  true,
			ShowSource: true,
		})
	}
	_, err := fmt.Fprintln(out, diag.FormatShort(bag.Items(), res.Files, true))
	return err
}

func printStatus(out io.Writer, res pipeline.Result) {
	if res.Err != nil || res.Path == "" {
		return
	}
	if res.Skipped {
		fmt.Fprintf(out, "%s %s\n", skipColor.Sprint("cached"), res.Path)
		return
	}
	verb := "organized"
	if res.Command == pipeline.CommandRevert {
		verb = "reverted"
	}
	if !res.Changed {
		verb = "unchanged"
	}
	fmt.Fprintf(out, "%s %s (%s)\n", okColor.Sprint(verb), res.Path, summarize(res))
}

func summarize(res pipeline.Result) string {
	h := res.Hoist
	var parts []string
	switch res.Command {
	case pipeline.CommandOrganize:
		hoisted := h.Dependencies.Hoisted + h.Plugins.Hoisted
		reused := h.Dependencies.Reused + h.Plugins.Reused
		conflicts := h.Dependencies.Conflicts + h.Plugins.Conflicts
		parts = append(parts, fmt.Sprintf("%d hoisted", hoisted), fmt.Sprintf("%d reused", reused))
		if conflicts > 0 {
			parts = append(parts, warnColor.Sprintf("%d conflicts", conflicts))
		}
		if h.Sorted {
			parts = append(parts, "sorted")
		}
	case pipeline.CommandRevert:
		parts = append(parts, fmt.Sprintf("%d resolved", h.Resolved), fmt.Sprintf("%d removed", len(h.Removed)))
		if h.Dangling > 0 {
			parts = append(parts, warnColor.Sprintf("%d dangling", h.Dangling))
		}
	}
	return strings.Join(parts, ", ")
}
