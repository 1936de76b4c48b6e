package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/bluesky-social/blexicon/atproto/lexicon"
	"github.com/bluesky-social/blexicon/lex"
	"github.com/bluesky-social/blexicon/util/cliutil"

	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
)

// Effective options for a run.
type Opts struct {
	Sources         []string `json:"source" yaml:"source"`
	OptionsOverride string   `json:"options_override,omitempty" yaml:"options_override,omitempty"`
	Verbose         int      `json:"verbose" yaml:"verbose"`
	Target          string   `json:"target,omitempty" yaml:"target,omitempty"`
	GoPackage       string   `json:"go_package,omitempty" yaml:"go_package,omitempty"`
	Output          string   `json:"output,omitempty" yaml:"output,omitempty"`
	CatalogDirs     []string `json:"catalog_dir,omitempty" yaml:"catalog_dir,omitempty"`
	Workers         int      `json:"workers,omitempty" yaml:"workers,omitempty"`
	NoRecords       bool     `json:"no_records,omitempty" yaml:"no_records,omitempty"`
	Tree            bool     `json:"tree,omitempty" yaml:"tree,omitempty"`
	LogLevel        string   `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat       string   `json:"log_format,omitempty" yaml:"log_format,omitempty"`
}

func optsFromFlags(cctx *cli.Context) Opts {
	return Opts{
		Sources:         cctx.Args().Slice(),
		OptionsOverride: cctx.String("options-override"),
		Verbose:         cctx.Count("verbose"),
		Target:          cctx.String("target"),
		GoPackage:       cctx.String("go-package"),
		Output:          cctx.String("output"),
		CatalogDirs:     cctx.StringSlice("catalog-dir"),
		Workers:         cctx.Int("workers"),
		NoRecords:       cctx.Bool("no-records"),
		Tree:            cctx.Bool("tree"),
		LogLevel:        cctx.String("log-level"),
		LogFormat:       cctx.String("log-format"),
	}
}

// Applies the options override file, which replaces every option. Without an override, the per-user config file
// only fills in options which were not given on the command line (or in the environment).
func loadOpts(cctx *cli.Context) (Opts, error) {
	opts := optsFromFlags(cctx)
	if opts.OptionsOverride != "" {
		var override Opts
		ok, err := cliutil.LoadOptionsOverride(opts.OptionsOverride, &override)
		if err != nil {
			return opts, err
		}
		if ok {
			return override, nil
		}
		return opts, nil
	}

	p, ok := cliutil.DefaultConfigPath("blexicon")
	if !ok {
		return opts, nil
	}
	var cfg Opts
	ok, err := cliutil.LoadOptionsOverride(p, &cfg)
	if err != nil {
		return opts, err
	}
	if ok {
		applyConfig(cctx, &opts, cfg)
	}
	return opts, nil
}

func applyConfig(cctx *cli.Context, opts *Opts, cfg Opts) {
	if len(opts.Sources) == 0 {
		opts.Sources = cfg.Sources
	}
	if !cctx.IsSet("verbose") {
		opts.Verbose = cfg.Verbose
	}
	str := func(flag string, dst *string, v string) {
		if !cctx.IsSet(flag) && v != "" {
			*dst = v
		}
	}
	str("target", &opts.Target, cfg.Target)
	str("go-package", &opts.GoPackage, cfg.GoPackage)
	str("output", &opts.Output, cfg.Output)
	str("log-level", &opts.LogLevel, cfg.LogLevel)
	str("log-format", &opts.LogFormat, cfg.LogFormat)
	if !cctx.IsSet("catalog-dir") && len(cfg.CatalogDirs) > 0 {
		opts.CatalogDirs = cfg.CatalogDirs
	}
	if !cctx.IsSet("workers") && cfg.Workers != 0 {
		opts.Workers = cfg.Workers
	}
	if !cctx.IsSet("no-records") && cfg.NoRecords {
		opts.NoRecords = true
	}
	if !cctx.IsSet("tree") && cfg.Tree {
		opts.Tree = true
	}
}

func runGenerate(cctx *cli.Context) error {
	opts, err := loadOpts(cctx)
	if err != nil {
		return err
	}

	logger, err := cliutil.SetupSlog(cliutil.LogOptions{
		LogLevel:  opts.LogLevel,
		LogFormat: opts.LogFormat,
		Verbosity: opts.Verbose,
		Writer:    cctx.App.ErrWriter,
	})
	if err != nil {
		return err
	}

	if opts.Verbose > 4 {
		if err := cliutil.DumpOptions(cctx.App.Writer, opts); err != nil {
			return err
		}
	}

	if len(opts.Sources) == 0 {
		return fmt.Errorf("no schema files or directories given")
	}
	paths, err := cliutil.ExpandSources(opts.Sources)
	if err != nil {
		return err
	}

	docs := make([]lex.Document, 0, len(paths))
	for _, p := range paths {
		logger.Info("Reading", "path", p)
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", p, err)
		}
		docs = append(docs, lex.Document{Name: p, Raw: b})
	}

	target, err := lex.TargetByName(opts.Target)
	if err != nil {
		return err
	}
	if gt, ok := target.(*lex.GoTarget); ok {
		gt.Package = opts.GoPackage
	}

	g := lex.NewGenerator(target)
	g.Options.Records = !opts.NoRecords
	g.Logger = logger
	if len(opts.CatalogDirs) > 0 {
		cat := lexicon.NewBaseCatalog()
		for _, dir := range opts.CatalogDirs {
			if err := cat.LoadDirectory(dir); err != nil {
				return fmt.Errorf("loading schema catalog: %w", err)
			}
		}
		logger.Info("loaded schema catalog", "dirs", opts.CatalogDirs, "defs", cat.Len())
		g.Catalog = cat
	}

	workers := opts.Workers
	if workers <= 0 {
		// respect container CPU quotas
		undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}))
		if err != nil {
			logger.Warn("failed to set GOMAXPROCS", "err", err)
		}
		defer undo()
		workers = runtime.GOMAXPROCS(0)
	}

	results := g.ProcessDocuments(cctx.Context, docs, workers)

	out := cctx.App.Writer
	if opts.Output != "" && opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeResults(cctx, logger, out, results, opts.Tree)
}

func writeResults(cctx *cli.Context, logger *slog.Logger, out io.Writer, results []lex.Result, tree bool) error {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			logger.Error("failed to decode schema file", "path", res.Name, "err", res.Err)
			failed++
			continue
		}
		for _, d := range res.Diagnostics {
			logger.Log(cctx.Context, d.SlogLevel(), d.Message, "path", res.Name, "id", d.Document, "def", d.Def, "diagnostic", d.Name)
		}
		if len(results) > 1 {
			if _, err := fmt.Fprintf(out, "// %s\n", res.Name); err != nil {
				return err
			}
		}
		text := res.Text
		if tree {
			text = lex.DeclTree(res.ID, res.Decls)
		}
		if _, err := io.WriteString(out, text); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d schema files failed to decode", failed, len(results))
	}
	return nil
}
