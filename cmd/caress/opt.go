package main

import (
	"os"
)

// cmdOpt re-serializes tape-machine code with the peephole merge and,
// given a profile, dead-loop elision.
func cmdOpt(args []string) int {
	c, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	var output string
	keepComments := false
	flags := c.flagSet("opt", "file.bf")
	flags.StringVar(&output, "o", "", "output file (default: stdout)")
	flags.BoolVar(&c.runLength, "run-length", c.runLength, "write repeated instructions as symbol plus count")
	flags.StringVar(&c.profile, "profile", "", "loop profile recorded by 'caress run -profile-out'")
	flags.BoolVar(&keepComments, "comments", false, "keep comments")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	configureLogging(c.verbosity)
	if flags.NArg() != 1 {
		flags.Usage()
		return exitUsage
	}

	input := flags.Arg(0)
	data, err := os.ReadFile(input)
	if err != nil {
		return fail(err)
	}
	c.optimize = true
	c.comments = "none"
	if keepComments {
		c.comments = "source"
	}
	text, err := c.postProcess(string(data))
	if err != nil {
		return fail(err)
	}
	if err := writeOutput(output, text); err != nil {
		return fail(err)
	}
	log.Infof("%s: %d -> %d bytes", input, len(data), len(text))
	return exitOK
}
