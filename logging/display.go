package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oscarcs/cc11/lex"
	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
)

// PrintErrorMessage prints a standard Go error to the console, for
// failures that happen outside of lexing a source file (bad CLI flags,
// unreadable config).
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

func displayBanner(style *pterm.Style, label, fileName string) {
	fmt.Print("\n-- ")
	style.Print(label)
	fmt.Print(" ")

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(fileName) - len(label) - 1
	if dashCount < 0 {
		dashCount = 0
	}
	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

func displayFatalBanner(msg string) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Fatal Error ")
	ErrorColorFG.Println(msg)
}

// displayPositionedBanner prints a banner, the message, and (when the
// source is still readable) the offending line with a caret under pos's
// column. Unlike the teacher's TextPosition-based displayCodeSelection,
// pp-tokens carry only a start point, so the highlight is a single caret
// rather than a span of carets.
func displayPositionedBanner(style *pterm.Style, label string, pos lex.Position, msg string) {
	displayBanner(style, label, filepath.Base(pos.File))
	fmt.Printf("%s: %s\n", pos, msg)
	displayCodeSelection(pos)
}

func displayCodeSelection(pos lex.Position) {
	f, err := os.Open(pos.File)
	if err != nil {
		return
	}
	defer f.Close()

	var line string
	sc := bufio.NewScanner(f)
	for lineNumber := 1; sc.Scan(); lineNumber++ {
		if lineNumber == pos.Line {
			line = sc.Text()
			break
		}
	}

	width := len(strconv.Itoa(pos.Line)) + 1
	fmt.Println()
	InfoColorFG.Print(fmt.Sprintf("%-*v", width, pos.Line))
	fmt.Print("|  ")
	fmt.Println(line)

	fmt.Print(strings.Repeat(" ", width), "|  ")
	col := pos.Column - 1
	if col < 0 || col > len(line) {
		col = 0
	}
	fmt.Print(strings.Repeat(" ", col))
	ErrorColorFG.Println("^")
	fmt.Println()
}

// DisplayCompileHeader prints the version banner before lexing begins.
func DisplayCompileHeader(version string, paths []string) {
	fmt.Print("cc11 ")
	InfoColorFG.Print("v" + version)
	fmt.Print(" -- ")
	InfoColorFG.Println(strings.Join(paths, ", "))
}

// DisplaySummary prints the closing "N errors, N warnings" line.
func DisplaySummary(errorCount, warningCount int) {
	fmt.Print("\n")
	if errorCount == 0 {
		SuccessColorFG.Print("done ")
	} else {
		ErrorColorFG.Print("failed ")
	}

	fmt.Print("(")
	if errorCount == 0 {
		SuccessColorFG.Print(0)
	} else {
		ErrorColorFG.Print(errorCount)
	}
	fmt.Print(" errors, ")

	if warningCount == 0 {
		SuccessColorFG.Print(0)
	} else {
		WarnColorFG.Print(warningCount)
	}
	fmt.Println(" warnings)")
}
