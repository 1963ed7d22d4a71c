// Package driver orchestrates a single invocation: load each input path,
// drive the lexer over it, and interpret the CLI surface around that
// loop. Adapted from the teacher's build.Compiler, narrowed to this
// core's lexical scope — there is no parsing table, no module graph, no
// concurrent resolution batches, since none of that exists here.
package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oscarcs/cc11/common"
	"github.com/oscarcs/cc11/config"
	"github.com/oscarcs/cc11/lex"
	"github.com/oscarcs/cc11/logging"
)

// Flags captures the CLI surface the driver interprets. Flags that
// belong to parsing, code generation, or assembling/linking
// (-fdump-ast, -S, -c, -a, -o, -m64, -O<n>, -g) are accepted and
// validated here but have no effect beyond that, since those phases are
// external collaborators this core does not implement — that is
// documented in each flag's comment rather than left to guesswork.
type Flags struct {
	Assemble   bool // -a: assemble only, no effect here beyond validation
	Compile    bool // -c: compile to object, no effect here beyond validation
	Preprocess bool // -E: dump the unexpanded pp-token stream
	Syntax     bool // -S: compile to assembly, no effect here beyond validation

	OutputPath string // -o

	Defines     []string // -D name[=value]; recorded, never substituted
	Undefines   []string // -U name; recorded, never substituted
	IncludeDirs []string // -I path; recorded, never searched

	DumpAST      bool // -fdump-ast: validated, no-op (no parser in this core)
	DumpStack    bool // -fdump-stack: print the include stack on a fatal error
	NoDumpSource bool // -fno-dump-source: accepted, no effect; diagnostics always show the source excerpt

	WarnAll     bool // -Wall
	WarnAsError bool // -Werror
	Silence     bool // -w

	M64      bool // -m64: validated, no-op (no codegen in this core)
	OptLevel int  // -O<n>: validated, no-op (no codegen in this core)
	Debug    bool // -g: validated, no-op (no codegen in this core)
}

// Driver ties configuration, CLI flags, and the lexer together for one
// invocation.
type Driver struct {
	cfg    *config.Config
	flags  *Flags
	report *logging.Reporter
	seen   map[uint]bool
}

// NewDriver builds a Driver. cfg's values are overridden by any
// corresponding flag the user passed explicitly.
func NewDriver(cfg *config.Config, flags *Flags) *Driver {
	report := logging.New()
	report.SetPolicy(flags.WarnAsError || cfg.WarnAsError, flags.Silence || cfg.SilenceWarnings)
	return &Driver{cfg: cfg, flags: flags, report: report, seen: make(map[uint]bool)}
}

// WarningCount returns the number of warnings reported across every path
// lexed by this Driver so far.
func (d *Driver) WarningCount() int {
	return d.report.WarningCount()
}

// ErrorCount returns the number of fatal errors reported. In practice this
// is always 0 when Run returns at all, since Error/Errorf terminate the
// process immediately; it exists so a caller can render a summary line
// uniformly regardless of outcome.
func (d *Driver) ErrorCount() int {
	return d.report.ErrorCount()
}

// Validate checks the CLI surface's own invariants, independent of any
// input file: exactly one of -a, -c, -E, -S must be given.
func (d *Driver) Validate() error {
	n := 0
	for _, set := range []bool{d.flags.Assemble, d.flags.Compile, d.flags.Preprocess, d.flags.Syntax} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("exactly one of -a, -c, -E, -S is required")
	}
	return nil
}

// Run lexes every path in turn (or "-" for stdin). A path that can't be
// opened is reported through d.report.Error, and a lexical error through
// d.report as well; with logging.Reporter both terminate the process
// immediately, so Run returning true means every file in paths was lexed
// to EOF cleanly. Run returns false only if the reporter's Error returns.
func (d *Driver) Run(paths []string) bool {
	for _, path := range paths {
		if path != "-" {
			id := common.GenerateIDFromPath(path)
			if d.seen[id] {
				d.report.Warnf(lex.Position{File: path}, "%s given more than once, skipping repeat", path)
				continue
			}
			d.seen[id] = true
		}
		if !d.runOne(path) {
			return false
		}
	}
	return true
}

func (d *Driver) runOne(path string) bool {
	if path != "-" && filepath.Ext(path) != common.SrcFileExtension {
		d.report.Warnf(lex.Position{File: path}, "expected a %s source file", common.SrcFileExtension)
	}

	lx := lex.New(d.report)
	lx.SetTabWidth(d.cfg.TabWidth)
	if d.flags.DumpStack {
		d.report.SetStackDumper(func() string { return dumpStack(lx) })
	}

	if err := lx.Init(path); err != nil {
		d.report.Error("%s", err)
		return false
	}

	var predefined map[string]bool
	if d.flags.Preprocess {
		predefined = definedNames(d.flags.Defines)
		fmt.Printf("-- unexpanded pp-token stream: %s --\n", path)
		if len(predefined) > 0 {
			fmt.Printf("-- predefined via -D (not substituted below): %s --\n", strings.Join(d.flags.Defines, ", "))
		}
		if len(d.flags.Undefines) > 0 {
			fmt.Printf("-- undefined via -U: %s --\n", strings.Join(d.flags.Undefines, ", "))
		}
	}

	for {
		tok := lx.Lex()
		if tok.Kind == lex.EOF {
			break
		}
		if d.flags.Preprocess && tok.Kind != lex.Space && tok.Kind != lex.Newline {
			note := ""
			if tok.Kind == lex.Ident && predefined[tok.Str] {
				note = "  [predefined]"
			}
			fmt.Printf("%-8s %-20q %d:%d%s\n", tok.KindName(), tok.String(), tok.Line, tok.Column, note)
		}
	}
	return true
}

// definedNames extracts the bare macro names from a driver's recorded -D
// definitions ("NAME" or "NAME=VALUE"), for annotating which identifiers
// in a -E dump were predefined on the command line.
func definedNames(defines []string) map[string]bool {
	if len(defines) == 0 {
		return nil
	}
	names := make(map[string]bool, len(defines))
	for _, d := range defines {
		name := d
		if i := strings.IndexByte(d, '='); i >= 0 {
			name = d[:i]
		}
		names[name] = true
	}
	return names
}

// dumpStack renders the lexer's include stack, outermost first, for
// -fdump-stack diagnostics alongside a fatal error.
func dumpStack(lx *lex.Lexer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "include stack (depth %d):\n", lx.StreamDepth())
	for i := 0; i < lx.StreamDepth(); i++ {
		fmt.Fprintf(&b, "  #%d %s\n", i, lx.StreamPositionAt(i))
	}
	return b.String()
}
