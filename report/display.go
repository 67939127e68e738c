package report

import (
	"bufio"
	"bytes"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightCyan
)

// displayICE displays an internal compiler error message.
func (r *Reporter) displayICE(message string) {
	r.printf("%s %s\n", ErrorStyleBG.Sprint("internal compiler error:"), message)
	r.printf("This error was not supposed to happen: please open an issue.\n\n")
}

// displayFatal displays a fatal error message.
func (r *Reporter) displayFatal(message string) {
	r.printf("%s %s\n\n", ErrorStyleBG.Sprint("fatal error:"), ErrorColorFG.Sprint(message))
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to prefix the message with: eg. if we want to display an error,
// the label is "error".
func (r *Reporter) displayCompileMessage(label, absPath, reprPath string, span *TextSpan, message string) {
	color := ErrorColorFG
	if label == "warning" {
		color = WarnColorFG
	}

	if span == nil {
		r.printf("%s: %s %s\n\n", reprPath, color.Sprint(label+":"), message)
	} else {
		r.printf("%s:%d:%d: %s %s\n\n", reprPath, span.StartLine+1, span.StartCol+1, color.Sprint(label+":"), message)
		r.displaySourceText(absPath, span)
	}
}

// displayStdError displays a standard Go error.
func (r *Reporter) displayStdError(reprPath string, err error) {
	r.printf("%s: %s %s\n\n", reprPath, ErrorColorFG.Sprint("error:"), err)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func (r *Reporter) displaySourceText(absPath string, span *TextSpan) {
	// Read the file so we can display the desired source text.  A file that
	// cannot be read is just not displayed: the message was already printed.
	buff, err := os.ReadFile(absPath)
	if err != nil {
		return
	}

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(buff))
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		r.printf("%s", InfoColorFG.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		r.printf("%s\n", line[minIndent:])
		r.printf("%s | ", strings.Repeat(" ", maxLineNumLen))

		// Only the first line starts its underlining after the start column
		// and only the last line stops before the end of the line.
		carretPrefixCount := 0
		if i == 0 {
			carretPrefixCount = span.StartCol - minIndent
		}

		carretSuffixCount := 0
		if i == len(lines)-1 {
			carretSuffixCount = len(line) - span.EndCol - 1
		}

		carretCount := len(line) - carretSuffixCount - carretPrefixCount - minIndent
		if carretPrefixCount < 0 {
			carretPrefixCount = 0
		}
		if carretCount < 1 {
			carretCount = 1
		}

		r.printf("%s%s\n", strings.Repeat(" ", carretPrefixCount), ErrorColorFG.Sprint(strings.Repeat("^", carretCount)))
	}

	r.printf("\n")
}
