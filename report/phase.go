package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// phaseSpinner stores the current phase spinner.
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Generating")

// ReportBeginPhase begins a new compilation phase.  The previous phase, if any,
// is ended successfully.  Phases are only displayed at the verbose log level
// but are always logged.
func ReportBeginPhase(phase string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayEndPhase(true)

	currentPhase = phase
	phaseStartTime = time.Now()
	Logger().Info("begin phase", "phase", phase)

	if rep.logLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// ReportEndPhase ends the current phase with the given outcome.
func ReportEndPhase(success bool) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if currentPhase != "" {
		Logger().Info("end phase", "phase", currentPhase, "ok", success, "elapsed", time.Since(phaseStartTime))
	}

	displayEndPhase(success)
	currentPhase = ""
}

// ReportCompileHeader displays the compiler version and project being built.
func ReportCompileHeader(version, project string) {
	if rep.logLevel == LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		rep.printf("uc %s -- project: %s\n", InfoColorFG.Sprint("v"+version), InfoColorFG.Sprint(project))
	}
}

// ReportCompilationFinished displays the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayEndPhase(rep.errorCount == 0)

	if rep.logLevel == LogLevelSilent {
		return
	}

	if rep.errorCount == 0 {
		if rep.logLevel == LogLevelVerbose {
			rep.printf("%s output written to %s\n", SuccessStyleBG.Sprint(" Done "), outputPath)
		}
	} else {
		rep.printf("%s %d error(s), %d warning(s)\n", ErrorStyleBG.Sprint(" Failed "), rep.errorCount, rep.warnCount)
	}
}

// DisplayInfoMessage displays a tagged informational message.
func DisplayInfoMessage(tag, msg string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel > LogLevelSilent {
		rep.printf("%s %s\n", SuccessStyleBG.Sprint(tag), SuccessColorFG.Sprint(msg))
	}
}

// -----------------------------------------------------------------------------

// displayBeginPhase displays the beginning of a compilation phase.
func displayBeginPhase(phase string) {
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
}

// displayEndPhase stops the phase spinner if one is running.
func displayEndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}

	padding := strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2)
	if success {
		phaseSpinner.Success(currentPhase+padding, fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()))
	} else {
		phaseSpinner.Fail(currentPhase + padding)
	}

	phaseSpinner = nil
}
