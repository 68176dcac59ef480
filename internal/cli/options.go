// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"shaccel/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Inputs
	Texts []string // literal strings to hash
	Files []string // file paths; "-" reads stdin

	// Accelerator selection
	Engine int // 0 or 1 pins an instance; -1 fans out across both

	// Output
	Output string // text | json
	Stats  bool
	Header bool // true unless --no-header

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: SHA-256 over a simulated dual-engine hardware accelerator

License: MIT
Version: %s

Usage: %s [flags] [FILE ...]
Hashes FILEs ('-' = stdin) and/or --text strings through the accelerator model.

`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	var texts stringSlice
	fs.Var(&texts, "text", "literal string to hash (repeatable)")

	fs.IntVar(&opt.Engine, "engine", -1, "accelerator instance: 0 | 1 | -1 = fan out across both [-1]")

	fs.StringVar(&opt.Output, "output", "text", "output format: text | json [text]")
	fs.BoolVar(&opt.Stats, "stats", false, "print per-instance run/tick counters to stderr [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text/TSV [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Texts = texts
	opt.Files = fs.Args()
	opt.Header = !noHeader

	// Validation
	if len(opt.Texts) == 0 && len(opt.Files) == 0 {
		opt.Files = []string{"-"} // hash stdin, sha256sum-style
	}
	if opt.Engine < -1 || opt.Engine > 1 {
		return opt, errors.New("--engine must be 0, 1 or -1")
	}
	if opt.Output != "text" && opt.Output != "json" {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	stdin := 0
	for _, f := range opt.Files {
		if f == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return opt, errors.New("stdin ('-') may be given only once")
	}
	return opt, nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
