// Package cmd wires up and runs the cc11 command-line lexer driver.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oscarcs/cc11/common"
	"github.com/oscarcs/cc11/config"
	"github.com/oscarcs/cc11/driver"
	"github.com/oscarcs/cc11/logging"

	"github.com/ComedicChimera/olive"
)

// Execute parses os.Args, builds a driver.Driver from the result, and
// runs it. Adapted from the teacher's cmd.Execute: same olive-based CLI
// construction, narrowed to the flag surface a standalone pp-token
// lexer understands. Unlike the teacher's build/mod/version subcommand
// tree, there is exactly one input file per invocation, matching the
// one-translation-unit-per-process convention 8cc's own CLI follows.
func Execute() {
	cli := olive.NewCLI("cc11", "cc11 lexes a C11 source file into preprocessing tokens", true)

	cli.AddPrimaryArg("input", "source file to lex (or - for stdin)", true)

	cli.AddFlag("E", "E", "dump the unexpanded preprocessing-token stream")
	cli.AddFlag("S", "S", "stop after generating assembly (validated, no-op here)")
	cli.AddFlag("c", "c", "stop after generating an object file (validated, no-op here)")
	cli.AddFlag("a", "a", "stop after assembling (validated, no-op here)")
	cli.AddStringArg("o", "o", "output path", false)
	cli.AddStringArg("D", "D", "comma-separated name[=value] macro definitions", false)
	cli.AddStringArg("U", "U", "comma-separated macro names to undefine", false)
	cli.AddStringArg("I", "I", "comma-separated include search directories", false)
	cli.AddFlag("fdump-ast", "fdump-ast", "dump the parsed AST (validated, no-op: no parser in this core)")
	cli.AddFlag("fdump-stack", "fdump-stack", "print the include stack on a fatal error")
	cli.AddFlag("fno-dump-source", "fno-dump-source", "accepted, no effect: diagnostics always show the source excerpt")
	cli.AddFlag("Wall", "Wall", "enable all warnings")
	cli.AddFlag("Werror", "Werror", "treat warnings as errors")
	cli.AddFlag("w", "w", "suppress all warnings")
	cli.AddFlag("m64", "m64", "target 64-bit (validated, no-op: no codegen in this core)")
	cli.AddStringArg("O", "O", "optimization level (validated, no-op: no codegen in this core)", false)
	cli.AddFlag("g", "g", "emit debug info (validated, no-op: no codegen in this core)")

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	flags := &driver.Flags{
		Assemble:     result.HasFlag("a"),
		Compile:      result.HasFlag("c"),
		Preprocess:   result.HasFlag("E"),
		Syntax:       result.HasFlag("S"),
		DumpAST:      result.HasFlag("fdump-ast"),
		DumpStack:    result.HasFlag("fdump-stack"),
		NoDumpSource: result.HasFlag("fno-dump-source"),
		WarnAll:      result.HasFlag("Wall"),
		WarnAsError:  result.HasFlag("Werror"),
		Silence:      result.HasFlag("w"),
		M64:          result.HasFlag("m64"),
		Debug:        result.HasFlag("g"),
	}

	if v, ok := result.Arguments["o"]; ok {
		flags.OutputPath = v.(string)
	}
	if v, ok := result.Arguments["D"]; ok {
		flags.Defines = splitList(v.(string))
	}
	if v, ok := result.Arguments["U"]; ok {
		flags.Undefines = splitList(v.(string))
	}
	if v, ok := result.Arguments["I"]; ok {
		flags.IncludeDirs = splitList(v.(string))
	}
	if v, ok := result.Arguments["O"]; ok {
		n, convErr := strconv.Atoi(v.(string))
		if convErr != nil {
			logging.PrintErrorMessage("CLI Usage Error", fmt.Errorf("-O expects a number, got %q", v))
			os.Exit(1)
		}
		flags.OptLevel = n
	}

	cfg, err := config.Load(common.ConfigFileName)
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		os.Exit(1)
	}
	flags.IncludeDirs = append(flags.IncludeDirs, cfg.IncludeDirs...)

	drv := driver.NewDriver(cfg, flags)
	if err := drv.Validate(); err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	input, _ := result.PrimaryArg()
	paths := []string{input}

	logging.DisplayCompileHeader(common.Version, paths)
	ok := drv.Run(paths)
	logging.DisplaySummary(drv.ErrorCount(), drv.WarningCount())
	if !ok {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
