package report

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during compilation.  The reporter respects the set log
// level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors and warnings reported so far.
	errorCount, warnCount int

	// Whether warnings should be promoted to errors.
	warnAsError bool

	// The stream all messages are written to.
	out io.Writer
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// logLevelNames maps the names accepted on the command line to log levels.
var logLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// LogLevelFromName converts a log level name into its enumerated value.
func LogLevelFromName(name string) (int, bool) {
	lvl, ok := logLevelNames[name]
	return lvl, ok
}

// rep is the global reporter instance.
var rep = newReporter(LogLevelVerbose, os.Stdout)

func newReporter(logLevel int, out io.Writer) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		logLevel: logLevel,
		out:      out,
	}
}

// InitReporter resets the global reporter to the given log level writing to
// standard out.
func InitReporter(logLevel int) {
	rep = newReporter(logLevel, os.Stdout)
}

// InitReporterTo resets the global reporter to write to the given stream.
func InitReporterTo(logLevel int, out io.Writer) {
	rep = newReporter(logLevel, out)
}

// SetWarningsAsErrors makes every subsequent warning count as an error.
func SetWarningsAsErrors(v bool) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warnAsError = v
}

// LogLevel returns the current log level of the global reporter.
func LogLevel() int {
	return rep.logLevel
}

// AnyErrors returns whether or not any errors were reported.
func AnyErrors() bool {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount > 0
}

// ErrorCount returns the number of errors reported so far.
func ErrorCount() int {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount
}

// printf writes to the reporter's output stream.  The caller must hold the
// lock.
func (r *Reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}
