package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSpanOf(t *testing.T) {
	src := []byte("ab\ncde\nf")

	tests := []struct {
		offset, length int
		want           TextSpan
	}{
		{0, 2, TextSpan{0, 0, 0, 1}},
		{3, 3, TextSpan{1, 0, 1, 2}},
		{1, 4, TextSpan{0, 1, 1, 1}},
		{7, 1, TextSpan{2, 0, 2, 0}},
		{4, 0, TextSpan{1, 1, 1, 1}},
	}

	for _, test := range tests {
		got := SpanOf(src, test.offset, test.length)
		if *got != test.want {
			t.Errorf("SpanOf(%d, %d) = %+v, want %+v", test.offset, test.length, *got, test.want)
		}
	}
}

func TestLineOf(t *testing.T) {
	src := []byte("a\nb\n\nc")

	for offset, want := range []int{1, 1, 2, 2, 3, 4} {
		if got := LineOf(src, offset); got != want {
			t.Errorf("LineOf(%d) = %d, want %d", offset, got, want)
		}
	}
}

func TestCodedErrors(t *testing.T) {
	if got := RaiseCode(400, 0, 1, "identifier `%s` is not a variable", "x").Error(); got != "U0400: identifier `x` is not a variable" {
		t.Errorf("got %q", got)
	}

	if got := RaiseAt(0, 1, "plain").Error(); got != "plain" {
		t.Errorf("got %q", got)
	}
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer
	InitReporterTo(LogLevelError, &out)
	defer InitReporter(LogLevelVerbose)

	src := []byte("x\n  bad\n")
	ReportError("/nonexistent/a.u", "a.u", src, RaiseAt(4, 3, "unexpected token"))

	if !strings.Contains(out.String(), "a.u:2:3:") || !strings.Contains(out.String(), "unexpected token") {
		t.Errorf("compile error not located: %q", out.String())
	}

	ReportError("/nonexistent/a.u", "a.u", src, errors.New("disk on fire"))
	if !strings.Contains(out.String(), "disk on fire") {
		t.Errorf("standard error not displayed: %q", out.String())
	}

	if ErrorCount() != 2 {
		t.Errorf("got %d errors, want 2", ErrorCount())
	}
}

func TestWarningsAsErrors(t *testing.T) {
	var out bytes.Buffer
	InitReporterTo(LogLevelWarn, &out)
	defer InitReporter(LogLevelVerbose)

	ReportCompileWarning("a.u", "a.u", nil, "careful")
	if AnyErrors() {
		t.Fatalf("a warning counted as an error")
	}

	SetWarningsAsErrors(true)
	ReportCompileWarning("a.u", "a.u", nil, "careful")
	if !AnyErrors() {
		t.Fatalf("a promoted warning did not count as an error")
	}
}
