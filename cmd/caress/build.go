package main

import (
	"fmt"
)

// cmdBuild compiles a source file to tape-machine code.
func cmdBuild(args []string) int {
	c, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	flags := c.flagSet("build", "[file.mc]")
	flags.StringVar(&c.output, "o", c.output, "output file (default: stdout)")
	c.bindCompile(flags)
	c.bindOptimize(flags)
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	configureLogging(c.verbosity)

	input, err := c.inputFile(flags)
	if err != nil {
		return fail(err)
	}
	if !isSource(input) {
		return fail(fmt.Errorf("%s: build expects a .mc source file", input))
	}
	// A profile named only in caress.toml may not have been recorded yet.
	if c.profile != "" && !flagWasSet(flags, "profile") && !fileExists(c.profile) {
		log.Infof("no profile at %s yet, building without one", c.profile)
		c.profile = ""
	}

	program, err := c.compileFile(input)
	if err != nil {
		return fail(err)
	}
	if program, err = c.postProcess(program); err != nil {
		return fail(err)
	}
	if err := writeOutput(c.output, program); err != nil {
		return fail(err)
	}
	if c.output != "" && c.output != "-" {
		log.Infof("wrote %s (%d bytes)", c.output, len(program))
	}
	return exitOK
}
