package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/oscarcs/cc11/lex"
)

// Reporter is the mutex-guarded diagnostic sink shared by the lexer and
// the driver. It satisfies lex.Reporter. A single Reporter is meant to be
// shared across every stream a driver lexes in one invocation, the same
// way the teacher's Logger is shared across one compilation.
type Reporter struct {
	m *sync.Mutex

	errorCount   int
	warningCount int

	warnAsError bool
	silent      bool

	// dumpStack, if set, renders the lexer's include stack for display
	// alongside a fatal error (-fdump-stack).
	dumpStack func() string
}

// New returns a Reporter with default policy: warnings are shown, none
// are promoted to fatal.
func New() *Reporter {
	return &Reporter{m: &sync.Mutex{}}
}

// SetStackDumper installs a callback used to render the lexer's include
// stack when a fatal error is reported. Passing nil disables it.
func (r *Reporter) SetStackDumper(f func() string) {
	r.dumpStack = f
}

// SetPolicy configures -Werror (warnAsError) and -w (silent) behavior.
// Promotion wins if both are set, since a silenced-then-promoted warning
// would otherwise vanish instead of failing the build.
func (r *Reporter) SetPolicy(warnAsError, silent bool) {
	r.warnAsError = warnAsError
	r.silent = silent
}

// ErrorCount returns the number of fatal errors reported.
func (r *Reporter) ErrorCount() int {
	r.m.Lock()
	defer r.m.Unlock()
	return r.errorCount
}

// WarningCount returns the number of warnings reported so far.
func (r *Reporter) WarningCount() int {
	r.m.Lock()
	defer r.m.Unlock()
	return r.warningCount
}

// Error reports a fatal error with no associated source position and
// terminates the process, mirroring 8cc's error(), which never returns.
func (r *Reporter) Error(format string, args ...any) {
	r.m.Lock()
	r.errorCount++
	displayFatalBanner(fmt.Sprintf(format, args...))
	r.printStackIfEnabled()
	r.m.Unlock()
	os.Exit(1)
}

// Errorf reports a fatal error at pos and terminates the process.
func (r *Reporter) Errorf(pos lex.Position, format string, args ...any) {
	r.m.Lock()
	r.errorCount++
	displayPositionedBanner(ErrorStyleBG, "Error", pos, fmt.Sprintf(format, args...))
	r.printStackIfEnabled()
	r.m.Unlock()
	os.Exit(1)
}

func (r *Reporter) printStackIfEnabled() {
	if r.dumpStack != nil {
		fmt.Print(r.dumpStack())
	}
}

// Warnf reports a warning at pos. Under -Werror it is promoted to a
// fatal error; under -w it is counted but never displayed; otherwise it
// is counted and shown immediately.
func (r *Reporter) Warnf(pos lex.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.warnAsError {
		r.Errorf(pos, "%s", msg)
		return
	}
	r.m.Lock()
	defer r.m.Unlock()
	r.warningCount++
	if r.silent {
		return
	}
	displayPositionedBanner(WarnStyleBG, "Warning", pos, msg)
}
