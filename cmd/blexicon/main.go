package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func init() {
	// -v is for --verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {

	app := cli.App{
		Name:      "blexicon",
		Usage:     "compile atproto Lexicon schema files in to Rust (or Go) type declarations",
		ArgsUsage: "<file-or-dir>...",
		Version:   versioninfo.Short(),
		Writer:    stdout,
		ErrWriter: stderr,
	}
	app.UseShortOptionHandling = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "options-override",
			Aliases: []string{"o"},
			Usage:   "replace all options with those from this JSON or YAML file",
			EnvVars: []string{"BLEXICON_OPTIONS_OVERRIDE"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "more logging; repeat for more (-vvvvv also dumps effective options)",
		},
		&cli.StringFlag{
			Name:    "target",
			Usage:   "output language: rust or go",
			Value:   "rust",
			EnvVars: []string{"BLEXICON_TARGET"},
		},
		&cli.StringFlag{
			Name:    "go-package",
			Usage:   "with --target=go, emit a complete source file in this package",
			EnvVars: []string{"BLEXICON_GO_PACKAGE"},
		},
		&cli.StringSliceFlag{
			Name:    "catalog-dir",
			Usage:   "directory of schema files to resolve cross-document references against (may be repeated)",
			EnvVars: []string{"BLEXICON_CATALOG_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Usage:   "file to write declarations to ('-' for stdout)",
			Value:   "-",
			EnvVars: []string{"BLEXICON_OUTPUT"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "number of schema files to process in parallel (0: GOMAXPROCS)",
			EnvVars: []string{"BLEXICON_WORKERS"},
		},
		&cli.BoolFlag{
			Name:  "tree",
			Usage: "print the lowered declarations as a tree instead of generating source",
		},
		&cli.BoolFlag{
			Name:    "no-records",
			Usage:   "emit placeholders for record definitions instead of structs",
			EnvVars: []string{"BLEXICON_NO_RECORDS"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug); overrides --verbose",
			EnvVars: []string{"BLEXICON_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format: text or json",
			Value:   "text",
			EnvVars: []string{"BLEXICON_LOG_FMT"},
		},
	}
	app.Action = runGenerate
	return app.Run(args)
}
