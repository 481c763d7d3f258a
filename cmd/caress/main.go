// Caress CLI - compiles .mc programs for the tape machine and runs them
package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var log = commonlog.GetLogger("caress.cli")

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: caress <command> [options] [file]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  build   compile a .mc program to tape-machine code\n")
	fmt.Fprintf(os.Stderr, "  run     compile (if needed) and run a program\n")
	fmt.Fprintf(os.Stderr, "  opt     optimize tape-machine code, optionally with a loop profile\n")
	fmt.Fprintf(os.Stderr, "  llvm    translate a program to LLVM IR or a native executable\n")
	fmt.Fprintf(os.Stderr, "  repl    compile and run statements interactively\n")
	fmt.Fprintf(os.Stderr, "\nWithout a file, build and run use the entry named in caress.toml.\n")
	fmt.Fprintf(os.Stderr, "Run 'caress <command> -h' for command options.\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  caress build -o hello.bf hello.mc\n")
	fmt.Fprintf(os.Stderr, "  caress run -profile-out leap.prof leap.mc\n")
	fmt.Fprintf(os.Stderr, "  caress opt -profile leap.prof -run-length leap.bf\n")
	fmt.Fprintf(os.Stderr, "  caress llvm -exe leap leap.mc\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitUsage)
	}

	commands := map[string]func([]string) int{
		"build": cmdBuild,
		"run":   cmdRun,
		"opt":   cmdOpt,
		"llvm":  cmdLLVM,
		"repl":  cmdRepl,
	}

	name := os.Args[1]
	switch name {
	case "-h", "-help", "--help", "help":
		usage()
		os.Exit(exitOK)
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", name)
		usage()
		os.Exit(exitUsage)
	}
	os.Exit(cmd(os.Args[2:]))
}

// configureLogging sets the log verbosity from the -v flag. Logs go to
// stderr so they never mix with program output.
func configureLogging(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

// fail prints err and returns the error exit status.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitError
}
