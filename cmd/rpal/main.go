/*
Rpal runs RPAL source files through the lexer, parser, standardizer,
flattener, and CSE machine pipeline and prints the program's Print output.

Usage:

	rpal [flags] <file>
	rpal -i

Once started against a file, the interpreter executes it start to finish and
exits; there is no debugger or step mode. With -i, rpal instead opens a
line-at-a-time REPL: each line is run as a standalone program.

The flags are:

	-v, --version
		Print the build version and exit.

	-l, --echo
		Echo the source text to stdout before executing it.

	-ast
		Dump the AST in dotted post-order form and exit without executing.

	-st
		Dump the standardized tree in dotted post-order form and exit without
		executing.

	-i, --interactive
		Drop into a read-eval-print loop instead of running a file.

	-c, --config FILE
		Path to an rpal TOML config file. See internal/config.

	-o, --compile FILE
		Compile the source to a cached binary program at FILE instead of
		running it.

	--run-compiled FILE
		Execute a previously compiled binary program, skipping lex, parse,
		standardize, and flatten.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dewminawijekoon/rpal"
	"github.com/dewminawijekoon/rpal/internal/cache"
	"github.com/dewminawijekoon/rpal/internal/config"
	"github.com/dewminawijekoon/rpal/internal/input"
	"github.com/dewminawijekoon/rpal/internal/rpalerr"
	"github.com/dewminawijekoon/rpal/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitRunError indicates an unsuccessful program execution due to a
	// lex, parse, standardization, or runtime error.
	ExitRunError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue setting up the interpreter (bad flags, unreadable file).
	ExitInitError
)

var (
	returnCode = ExitSuccess
	dumpWidth  = 80

	flagVersion     = pflag.BoolP("version", "v", false, "Print the build version and exit")
	flagEcho        = pflag.BoolP("echo", "l", false, "Echo the source text before executing it")
	flagDumpAST     = pflag.Bool("ast", false, "Dump the AST in dotted post-order form and exit")
	flagDumpST      = pflag.Bool("st", false, "Dump the standardized tree in dotted post-order form and exit")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Drop into a read-eval-print loop")
	flagConfig      = pflag.StringP("config", "c", "", "Path to an rpal TOML config file")
	flagCompile     = pflag.StringP("compile", "o", "", "Compile the source to a cached binary program instead of running it")
	flagRunCompiled = pflag.String("run-compiled", "", "Execute a previously compiled binary program")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		}
		os.Exit(returnCode)
	}()

	// pflag reads a single-dash argument as a run of shorthand flags, so the
	// single-dash spellings -ast and -st are rewritten to their long forms.
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--" {
			break
		}
		if os.Args[i] == "-ast" || os.Args[i] == "-st" {
			os.Args[i] = "-" + os.Args[i]
		}
	}
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("rpal %s\n", version.Current)
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not load config: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if !pflag.Lookup("echo").Changed {
		*flagEcho = cfg.CLI.EchoSource
	}
	if cfg.CLI.DumpWidth > 0 {
		dumpWidth = cfg.CLI.DumpWidth
	}

	if *flagRunCompiled != "" {
		runCompiled(*flagRunCompiled)
		return
	}

	if *flagInteractive {
		runREPL()
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: rpal [flags] <file>\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not read %s: %s\n", args[0], err.Error())
		returnCode = ExitInitError
		return
	}
	source := string(data)

	if *flagEcho {
		fmt.Println(source)
	}

	eng := rpal.New(os.Stdout)

	switch {
	case *flagDumpAST:
		dump, err := eng.DumpAST(source)
		if err != nil {
			reportError(err)
			return
		}
		fmt.Println(dump)
	case *flagDumpST:
		dump, err := eng.DumpST(source)
		if err != nil {
			reportError(err)
			return
		}
		fmt.Println(dump)
	case *flagCompile != "":
		blocks, err := eng.CompileCache(source)
		if err != nil {
			reportError(err)
			return
		}
		if err := cache.Save(*flagCompile, blocks); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not write compiled program: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	default:
		if err := eng.Run(source); err != nil {
			reportError(err)
			return
		}
	}
}

func runCompiled(path string) {
	blocks, err := cache.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not load compiled program: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	eng := rpal.New(os.Stdout)
	if err := eng.RunCompiled(blocks); err != nil {
		reportError(err)
	}
}

func runREPL() {
	reader, err := input.NewInteractiveReader()
	var direct *input.DirectProgramReader
	if err != nil {
		direct = input.NewDirectReader(os.Stdin)
	} else {
		defer reader.Close()
	}

	for {
		var line string
		var readErr error
		if direct != nil {
			line, readErr = direct.ReadCommand()
		} else {
			line, readErr = reader.ReadCommand()
		}
		if readErr != nil {
			return
		}

		eng := rpal.New(os.Stdout)
		if err := eng.Run(line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		}
		fmt.Println()
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", rpalerr.Format(err, dumpWidth))
	returnCode = ExitRunError
}
