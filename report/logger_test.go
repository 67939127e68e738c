package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerFile(t *testing.T) {
	defer InitLogger(false, "")

	path := filepath.Join(t.TempDir(), "build.log")
	if err := InitLogger(false, path); err != nil {
		t.Fatal(err)
	}

	Logger().Info("phase finished", "phase", "resolve")
	CloseLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec); err != nil {
		t.Fatalf("log file is not a JSON record: %s", data)
	}

	if rec["msg"] != "phase finished" || rec["phase"] != "resolve" {
		t.Errorf("got record %v", rec)
	}
}

func TestLoggerDebug(t *testing.T) {
	defer InitLogger(false, "")

	if err := InitLogger(false, ""); err != nil {
		t.Fatal(err)
	}

	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Errorf("logger without a sink should discard records")
	}

	if err := InitLogger(true, ""); err != nil {
		t.Fatal(err)
	}

	if !Logger().Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("debug logging is not enabled")
	}
}
