package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitSwitchesEarlyLoggers(t *testing.T) {
	// Loggers created before Init must pick up the configured handler.
	early := L("refresh")

	var buf bytes.Buffer
	Init("text", "debug", &buf)
	defer Init("text", "warn", nil)

	early.Debug("cycle complete", "count", 3)

	out := buf.String()
	if !strings.Contains(out, "cycle complete") {
		t.Fatalf("early logger did not write to configured output: %q", out)
	}
	if !strings.Contains(out, "component=refresh") {
		t.Fatalf("component attr missing: %q", out)
	}
}

func TestInitJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("json", "info", &buf)
	defer Init("text", "warn", nil)

	L("ops").Info("signal sent", KeyPID, 42)

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"pid":42`) {
		t.Fatalf("pid field missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRotatingWriterRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "procman.log")

	rw, err := NewRotatingWriter(path, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer rw.Close()
	rw.maxSize = 64 // shrink for the test

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 4; i++ {
		if _, err := rw.Write(line); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated backup .1: %v", err)
	}
}

func TestBackupNamesAreNumberedSuffixes(t *testing.T) {
	rw := &RotatingWriter{filePath: "/var/log/procman.log"}
	for index, want := range map[int]string{
		1: "/var/log/procman.log.1",
		3: "/var/log/procman.log.3",
	} {
		if got := rw.backupName(index); got != want {
			t.Errorf("backupName(%d) = %q, want %q", index, got, want)
		}
	}
}
