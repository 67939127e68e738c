package report

import (
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text. It is used to specify
// erroneous or otherwise significant source text in a U program.  Text spans
// are inclusive on both sides: the starting position is the position of the
// first character in the span and the ending position is the position of the
// last character in the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// SpanOf computes the text span of the byte range [offset, offset+length) in
// src.  Tokens only store byte offsets so spans are computed lazily when a
// message actually needs to be displayed.
func SpanOf(src []byte, offset, length int) *TextSpan {
	if offset > len(src) {
		offset = len(src)
	}

	end := offset + length - 1
	if length <= 0 {
		end = offset
	}
	if end > len(src) {
		end = len(src)
	}

	span := &TextSpan{}
	line, col := 0, 0
	for i := 0; i <= end && i <= len(src); i++ {
		if i == offset {
			span.StartLine, span.StartCol = line, col
		}

		if i == end {
			span.EndLine, span.EndCol = line, col
			break
		}

		if i < len(src) && src[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}

	return span
}

// LineOf returns the one-based line number containing the byte offset in src.
func LineOf(src []byte, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
		}
	}

	return line
}

// -----------------------------------------------------------------------------

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The numeric error code or zero if the error is uncoded.
	Code int

	// The byte offset and length of the erroneous source text.
	Offset, Length int

	// The span over which the error occurs.  This is computed from the offset
	// once the source text is known and may be nil.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	if lce.Code != 0 {
		return fmt.Sprintf("U%04d: %s", lce.Code, lce.Message)
	}

	return lce.Message
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// RaiseAt creates a new local compile error positioned at a byte range of the
// source text.
func RaiseAt(offset, length int, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{
		Message: fmt.Sprintf(msg, args...),
		Offset:  offset,
		Length:  length,
	}
}

// RaiseCode creates a new coded compile error positioned at a byte range.
func RaiseCode(code, offset, length int, msg string, args ...interface{}) *LocalCompileError {
	lce := RaiseAt(offset, length, msg, args...)
	lce.Code = code
	return lce
}

// Locate fills in the error's span from its byte offset if it does not already
// have one.
func (lce *LocalCompileError) Locate(src []byte) *LocalCompileError {
	if lce.Span == nil {
		lce.Span = SpanOf(src, lce.Offset, lce.Length)
	}

	return lce
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayEndPhase(false)
	rep.displayICE(fmt.Sprintf(message, args...))
	Logger().Error("internal compiler error", "message", fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: a missing project
// file, an unwritable output directory, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayEndPhase(false)
		rep.displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error: ie. erroneous input code. The
// absPath is the absolute path to the erroneous source file. The reprPath is
// the representative path to the erroneous source file.  The span may be nil
// in which case no position information will be printed.
func ReportCompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	msg := fmt.Sprintf(message, args...)
	Logger().Error(msg, "file", reprPath, "span", span)

	if rep.logLevel > LogLevelSilent {
		displayEndPhase(false)
		rep.displayCompileMessage("error", absPath, reprPath, span, msg)
	}
}

// ReportCompileWarning reports a compilation warning.  The arguments are of the
// same form as those to ReportCompileError.  When warnings are treated as errors
// the warning is reported as an error instead.
func ReportCompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	if rep.warnAsError {
		ReportCompileError(absPath, reprPath, span, message, args...)
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warnCount++
	msg := fmt.Sprintf(message, args...)
	Logger().Warn(msg, "file", reprPath)

	if rep.logLevel > LogLevelError {
		rep.displayCompileMessage("warning", absPath, reprPath, span, msg)
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	Logger().Error(err.Error(), "file", reprPath)

	if rep.logLevel > LogLevelSilent {
		displayEndPhase(false)
		rep.displayStdError(reprPath, err)
	}
}

// ReportError reports an error returned by one of the compilation phases.
// Local compile errors are located in src and displayed with their source
// text; all other errors are displayed as standard errors.
func ReportError(absPath, reprPath string, src []byte, err error) {
	if lce, ok := err.(*LocalCompileError); ok {
		lce.Locate(src)
		ReportCompileError(absPath, reprPath, lce.Span, "%s", lce.Error())
	} else {
		ReportStdError(reprPath, err)
	}
}

// -----------------------------------------------------------------------------

// CatchErrors catches any errors thrown by a `panic` during a stage of
// compilation. In effect, this handler determines when any errors
// "unrecoverable" within a given subsection of the compiler should stop
// bubbling.
// NB: This function must ALWAYS be deferred.
func CatchErrors(absPath, reprPath string) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*LocalCompileError); ok {
			ReportCompileError(
				absPath,
				reprPath,
				cerr.Span,
				"%s", cerr.Error(),
			)
		} else if serr, ok := x.(error); ok {
			ReportStdError(reprPath, serr)
		} else {
			ReportICE("%v", x)
		}
	}
}
