package cliutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bluesky-social/blexicon/atproto/lexicon"

	"github.com/adrg/xdg"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Replaces the contents of out with options read from a JSON or YAML file.
//
// Returns false (and no error) if the file can't be read, in which case out is untouched. JSON is tried first; a
// file which is neither valid JSON nor valid YAML is an error.
func LoadOptionsOverride(path string, out any) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, nil
	}
	if jerr := json.Unmarshal(b, out); jerr == nil {
		return true, nil
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("parsing options override %s: %w", path, err)
	}
	return true, nil
}

// Path of the per-user config file, if one exists: $XDG_CONFIG_HOME/<app>/config.yaml
func DefaultConfigPath(app string) (string, bool) {
	p, err := xdg.SearchConfigFile(filepath.Join(app, "config.yaml"))
	if err != nil {
		return "", false
	}
	return p, true
}

// Writes options as indented JSON, a separator line, then YAML.
func DumpOptions(w io.Writer, opts any) error {
	b, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n===========\n", b); err != nil {
		return err
	}
	y, err := yaml.Marshal(opts)
	if err != nil {
		return err
	}
	_, err = w.Write(y)
	return err
}

// Expands a list of files and directories to the list of schema files to read.
//
// Files are passed through as given, whatever their extension. Directories are walked recursively, in lexical order,
// for '.json', '.yaml' and '.yml' files.
func ExpandSources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !lexicon.IsSchemaPath(p) {
				return nil
			}
			out = append(out, p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSources
	}
	return out, nil
}

var ErrNoSources = errors.New("no schema files found")
