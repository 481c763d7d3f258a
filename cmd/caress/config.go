package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chazu/caress/cache"
	"github.com/chazu/caress/compiler"
	"github.com/chazu/caress/compiler/hash"
	"github.com/chazu/caress/manifest"
	"github.com/chazu/caress/vm"
)

// config holds the settings shared by the subcommands. Values come from
// caress.toml when one is found; command-line flags override them.
type config struct {
	entry     string
	output    string
	comments  string
	runLength bool
	optimize  bool
	profile   string
	cache     bool
	cachePath string
	maxSteps  uint64
	verbosity int
}

func loadConfig() (*config, error) {
	c := &config{comments: compiler.CommentsNone.String()}
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	if m == nil {
		return c, nil
	}

	c.entry = m.EntryPath()
	c.output = m.OutputPath()
	c.comments = m.Compiler.Comments
	c.runLength = m.Output.RunLength
	c.optimize = m.Output.Optimize
	c.profile = m.ProfilePath()
	c.cache = m.Cache.Enabled
	c.cachePath = m.CachePath()
	c.maxSteps = m.Machine.MaxSteps
	return c, nil
}

// flagSet creates a FlagSet for a subcommand with the common flags bound
// to c. Defaults are the manifest's values.
func (c *config) flagSet(name, args string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.IntVar(&c.verbosity, "v", 0, "log verbosity (each step logs more detail)")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: caress %s [options] %s\n\nOptions:\n", name, args)
		flags.PrintDefaults()
	}
	return flags
}

func (c *config) bindCompile(flags *flag.FlagSet) {
	flags.StringVar(&c.comments, "comments", c.comments, "comment verbosity: none, source, names, codegen")
	flags.BoolVar(&c.cache, "cache", c.cache, "reuse cached output for unchanged programs")
	flags.StringVar(&c.cachePath, "cache-path", c.cachePath, "cache database (default: user cache directory)")
}

func (c *config) bindOptimize(flags *flag.FlagSet) {
	flags.BoolVar(&c.optimize, "optimize", c.optimize, "merge and cancel adjacent runs")
	flags.BoolVar(&c.runLength, "run-length", c.runLength, "write repeated instructions as symbol plus count")
	flags.StringVar(&c.profile, "profile", c.profile, "loop profile for dead-loop elision")
}

func (c *config) options() (compiler.Options, error) {
	v, err := compiler.ParseCommentVerbosity(c.comments)
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{Comments: v}, nil
}

// inputFile returns the file named on the command line, or the manifest
// entry when there is none.
func (c *config) inputFile(flags *flag.FlagSet) (string, error) {
	switch flags.NArg() {
	case 0:
		if c.entry == "" {
			return "", errors.New("no input file and no caress.toml entry")
		}
		return c.entry, nil
	case 1:
		return flags.Arg(0), nil
	}
	return "", fmt.Errorf("expected one input file, got %d", flags.NArg())
}

// isSource reports whether path names a source program rather than
// tape-machine code.
func isSource(path string) bool {
	return filepath.Ext(path) == ".mc"
}

// compileFile compiles a source file, consulting the cache when enabled.
func (c *config) compileFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	src := string(data)
	opts, err := c.options()
	if err != nil {
		return "", err
	}
	stmts, err := compiler.Parse(src)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if !c.cache {
		return compiler.Generate(stmts, opts)
	}

	store, err := c.openCache()
	if err != nil {
		return "", err
	}
	defer store.Close()

	key := hash.CacheKey(src, stmts, opts)
	if program, err := store.Get(key); err == nil {
		log.Infof("%s: using cached program", path)
		return program, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		return "", err
	}

	program, err := compiler.Generate(stmts, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if err := store.Put(key, program); err != nil {
		log.Warningf("caching %s: %v", path, err)
	}
	return program, nil
}

func (c *config) openCache() (*cache.Store, error) {
	path := c.cachePath
	if path == "" {
		var err error
		if path, err = cache.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return cache.Open(path)
}

// loadProgram returns the tape-machine text for path: compiled when path
// is a source file, read as is otherwise.
func (c *config) loadProgram(path string) (string, error) {
	if isSource(path) {
		return c.compileFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// postProcess applies the optimizer settings to program text.
func (c *config) postProcess(program string) (string, error) {
	if !c.optimize && !c.runLength && c.profile == "" {
		return program, nil
	}
	prog, err := vm.Parse(program)
	if err != nil {
		return "", err
	}
	opts := vm.SerializeOptions{
		Comments:  c.comments != compiler.CommentsNone.String(),
		RunLength: c.runLength,
	}
	if c.profile != "" {
		if opts.Profile, err = vm.LoadProfile(c.profile); err != nil {
			return "", err
		}
	}
	text, stats, err := vm.Serialize(prog, opts)
	if err != nil {
		return "", err
	}
	log.Infof("optimizer: %d runs cancelled, %d loops elided", stats.Cancelled, stats.ElidedLoops)
	return text, nil
}

// writeOutput writes text to path, or to stdout when path is "" or "-".
func writeOutput(path, text string) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func flagWasSet(flags *flag.FlagSet, name string) bool {
	set := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
