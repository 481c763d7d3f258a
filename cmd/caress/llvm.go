package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/chazu/caress/native"
	"github.com/chazu/caress/vm"
)

// cmdLLVM translates a program to LLVM IR, or with -exe compiles it to a
// native executable through clang.
func cmdLLVM(args []string) int {
	c, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	var output, exe string
	flags := c.flagSet("llvm", "[file.mc | file.bf]")
	c.bindCompile(flags)
	flags.StringVar(&output, "o", "", "IR output file (default: stdout)")
	flags.StringVar(&exe, "exe", "", "build a native executable at this path instead of writing IR")
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
	// Merged runs lower to fewer instructions.
	if prog, err = vm.Optimize(prog, vm.SerializeOptions{}); err != nil {
		return fail(err)
	}

	if exe != "" {
		if output != "" {
			return fail(errors.New("-o and -exe are mutually exclusive"))
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := native.BuildExecutable(ctx, prog, exe); err != nil {
			return fail(err)
		}
		log.Infof("wrote executable %s", exe)
		return exitOK
	}

	w := os.Stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fail(err)
		}
		defer f.Close()
		w = f
	}
	if err := native.WriteIR(w, prog); err != nil {
		return fail(err)
	}
	return exitOK
}
