package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/chazu/caress/vm"
)

// cmdRun runs a program. Source files are compiled first; anything else
// is taken to be tape-machine code. The program runs exactly as
// compiled, so a profile recorded here matches the build output.
func cmdRun(args []string) int {
	c, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	var profileOut string
	flags := c.flagSet("run", "[file.mc | file.bf]")
	c.bindCompile(flags)
	flags.Uint64Var(&c.maxSteps, "max-steps", c.maxSteps, "stop after this many instructions (0 = no limit)")
	flags.StringVar(&profileOut, "profile-out", "", "record loop counts to this file")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	configureLogging(c.verbosity)

	input, err := c.inputFile(flags)
	if err != nil {
		return fail(err)
	}
	text, err := c.loadProgram(input)
	if err != nil {
		return fail(err)
	}
	prog, err := vm.Parse(text)
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := vm.NewStreamTerminal(os.Stdin, os.Stdout)
	interp := vm.NewInterpreter(term)
	interp.MaxSteps = c.maxSteps
	if profileOut != "" {
		interp.Profiler = vm.NewProfiler()
	}

	runErr := interp.Run(ctx, prog)
	if err := term.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	log.Infof("%s: %d steps", input, interp.Steps())

	if interp.Profiler != nil {
		profile := interp.Profiler.Profile(prog)
		if err := vm.SaveProfile(profileOut, profile); err != nil {
			return fail(err)
		}
		log.Infof("wrote profile %s (%d dead loops)", profileOut, profile.DeadLoops())
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fail(errors.New("interrupted"))
		}
		return fail(runErr)
	}
	return exitOK
}
