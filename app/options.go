// Package app wires the editor together: command line, settings, logging,
// schema, level and session. It has no window dependency; cmd/editor puts a
// frontend on top of it.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/milk9111/tilepaint/schema"
)

// ErrUsage marks a bad command line.
var ErrUsage = errors.New("usage")

// Options is the parsed command line.
type Options struct {
	// SchemaPath is a schema file on disk or the name of a bundled schema.
	SchemaPath string
	LoadPath   string
	SavePath   string
	// Edit is set when -edit gave LoadPath and SavePath together; a missing
	// file then starts a new level.
	Edit       bool
	GenPath    string
	ConfigPath string
	Debug      bool
	Name       string
}

// ParseArgs parses args without the program name. Help output and usage
// errors go to out.
func ParseArgs(args []string, out io.Writer) (Options, error) {
	var (
		opts Options
		edit string
	)

	fs := flag.NewFlagSet("tilepaint", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.LoadPath, "load", "", "level file to open (a bundled level name also works)")
	fs.StringVar(&opts.SavePath, "save", "", "level file to write on save")
	fs.StringVar(&edit, "edit", "", "level file to open and save to; conflicts with -load and -save")
	fs.StringVar(&opts.GenPath, "gen", "", "tengo generator script to run after loading")
	fs.StringVar(&opts.ConfigPath, "config", "", "settings file (yaml, toml or json)")
	fs.BoolVar(&opts.Debug, "debug", false, "development logging")
	fs.StringVar(&opts.Name, "name", "", "name of a new level (defaults to the schema name)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: tilepaint [flags] [schema]\n\nschema defaults to the bundled %s.\n\n", schema.DefaultName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	switch fs.NArg() {
	case 0:
		opts.SchemaPath = schema.DefaultName
	case 1:
		opts.SchemaPath = fs.Arg(0)
	default:
		fs.Usage()
		return Options{}, fmt.Errorf("%w: expected one schema, got %v", ErrUsage, fs.Args())
	}

	if edit != "" {
		if opts.LoadPath != "" || opts.SavePath != "" {
			fs.Usage()
			return Options{}, fmt.Errorf("%w: -edit cannot be combined with -load or -save", ErrUsage)
		}
		opts.LoadPath, opts.SavePath, opts.Edit = edit, edit, true
	}
	return opts, nil
}
