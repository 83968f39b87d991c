package clipio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func TestIOManager_EnvFallbackSize(t *testing.T) {
	t.Setenv("COLUMNS", "101")
	t.Setenv("LINES", "55")
	m := New().WithOut(&bytes.Buffer{})
	if m.Width() != 101 || m.Height() != 55 {
		t.Fatalf("want 101x55, got %dx%d", m.Width(), m.Height())
	}
}

func TestIOManager_DefaultSize(t *testing.T) {
	t.Setenv("COLUMNS", "")
	t.Setenv("LINES", "")
	m := New().WithOut(&bytes.Buffer{})
	if m.Width() != 80 || m.Height() != 24 {
		t.Fatalf("want 80x24, got %dx%d", m.Width(), m.Height())
	}
}

func TestIOManager_BufferIsNotTTY(t *testing.T) {
	m := New().WithOut(&bytes.Buffer{}).WithIn(strings.NewReader(""))
	if m.IsTTY() {
		t.Error("buffer reported as terminal")
	}
	if !m.IsRedirected() || !m.IsPiped() {
		t.Error("buffer IO should count as redirected and piped")
	}
	if m.IsInteractive() {
		t.Error("reader should not be interactive")
	}
}

func TestIOManager_ColorOverrides(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	m := New().WithOut(&bytes.Buffer{}).ColorAuto()
	if m.SupportsColor() {
		t.Fatal("non-terminal output should not support color")
	}
	if !m.ForceColor().SupportsColor() {
		t.Fatal("ForceColor should enable")
	}

	out := m.Paint("x", color.FgRed)
	if !strings.Contains(out, "\x1b[") || !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatalf("missing ANSI: %q", out)
	}

	t.Setenv("NO_COLOR", "1")
	if m.SupportsColor() {
		t.Fatal("NO_COLOR should win over ForceColor")
	}
	if got := m.Bold("x"); got != "x" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestLogger_TaggedAndLevels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out, errOut bytes.Buffer
	m := New().WithOut(&out).WithErr(&errOut)
	l := NewLogger(m).WithFormat(LogFormatTagged)

	l.Debug("hidden %d", 1)
	l.Info("hello %s", "world")
	l.Error("boom")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug should be filtered at default level: %q", out.String())
	}
	if got := out.String(); got != "[INFO] hello world\n" {
		t.Errorf("info output = %q", got)
	}
	if got := errOut.String(); got != "[ERROR] boom\n" {
		t.Errorf("error output = %q", got)
	}

	l.WithLevel(LevelDebug).Debug("shown")
	if !strings.Contains(out.String(), "[DEBUG] shown") {
		t.Errorf("debug missing after WithLevel: %q", out.String())
	}
}

func TestLogger_TimestampAndPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out bytes.Buffer
	l := NewLogger(New().WithOut(&out)).WithFormat(LogFormatPlain).WithTimestamp(true)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Success("done")
	if got := out.String(); got != "03:04:05 done\n" {
		t.Errorf("got %q", got)
	}
}

func TestLogger_NilIsDisabled(t *testing.T) {
	var l *Logger
	if l.Enabled(LevelError) {
		t.Error("nil logger must report disabled")
	}
}

func TestLogger_SetPrefixAndStreams(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out, errOut bytes.Buffer
	l := NewLogger(New().WithOut(&out).WithErr(&errOut)).
		SetPrefix(LevelWarning, "!!").
		ErrorsToStderr(false)

	l.Warning("careful")
	l.Info("note")
	if got, want := out.String(), "!! careful\n◆ note\n"; got != want {
		t.Errorf("out = %q, want %q", got, want)
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr should be unused, got %q", errOut.String())
	}

	out.Reset()
	l.WithFormat(LogFormatTagged).Warning("again")
	if got := out.String(); got != "[WARN] again\n" {
		t.Errorf("WithFormat should drop custom prefixes, got %q", got)
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelSuccess: "SUCCESS",
		LevelWarning: "WARN",
		LogLevel(42): "UNKNOWN",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}
