package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points the package at a temporary log directory and resets
// global state.
func setupTestDir(t *testing.T) {
	t.Helper()

	tempDir := t.TempDir()

	origLogDir := logDir
	origInitErr := initErr
	origSessionID := sessionID

	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	initOnce.Do(func() {}) // logDir is already set
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
	})
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}
	if logger.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}
	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.LogPath())
	}

	fileName := filepath.Base(logger.LogPath())
	if !strings.HasSuffix(fileName, "-unoverlay.log") {
		t.Errorf("Expected log file to end with '-unoverlay.log', got %q", fileName)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("engine", &buf)

	logger.Debugf("hidden by default")
	logger.Infof("info %d", 1)
	logger.Warnf("warning")
	logger.Errorf("error")

	out := buf.String()
	if strings.Contains(out, "hidden by default") {
		t.Errorf("debug entry written at info level:\n%s", out)
	}
	for _, pattern := range []string{"[engine] [INFO] info 1", "[engine] [WARN] warning", "[engine] [ERROR] error"} {
		if !strings.Contains(out, pattern) {
			t.Errorf("Log content missing expected pattern: %q\nContent:\n%s", pattern, out)
		}
	}

	buf.Reset()
	logger.SetLevel(LevelDebug)
	if !logger.DebugEnabled() {
		t.Error("Expected debug to be enabled")
	}
	logger.Debugf("candidate %s", "div#modal")
	if !strings.Contains(buf.String(), "[engine] [DEBUG] candidate div#modal") {
		t.Errorf("debug entry missing:\n%s", buf.String())
	}

	buf.Reset()
	logger.SetLevel(LevelError)
	logger.Warnf("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected no output at error level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"", LevelInfo, false},
		{"normal", LevelInfo, false},
		{"verbose", LevelInfo, false},
		{"WARN", LevelWarn, false},
		{"quiet", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMultipleComponentsShareFile(t *testing.T) {
	setupTestDir(t)

	logger1, err := NewLogger("component1")
	if err != nil {
		t.Fatalf("Failed to create logger1: %v", err)
	}
	defer logger1.Close()

	logger2, err := NewLogger("component2")
	if err != nil {
		t.Fatalf("Failed to create logger2: %v", err)
	}
	defer logger2.Close()

	if logger1.LogPath() != logger2.LogPath() {
		t.Errorf("Expected same log path, got %q and %q", logger1.LogPath(), logger2.LogPath())
	}

	logger1.Infof("Message from component1")
	logger2.Infof("Message from component2")

	content, err := os.ReadFile(logger1.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	for _, c := range []string{"[component1]", "[component2]"} {
		if !strings.Contains(string(content), c) {
			t.Errorf("Log missing %s entries", c)
		}
	}
}

func TestLoggerClose(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}
