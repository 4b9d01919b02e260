package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	logFile := setupLogging(false)
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}

	if output := log.Writer(); output != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", output)
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	defer os.RemoveAll(logDir)

	logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()
	defer log.SetOutput(io.Discard)

	logPath := filepath.Join(logDir, logFileName)
	log.Println("Test log message")

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}

	if output := log.Writer(); output == os.Stdout || output == os.Stderr {
		t.Error("Log output should not be stdout or stderr")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	defer os.RemoveAll(logDir)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)

	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatalf("Failed to write large log file: %v", err)
	}

	logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()
	defer log.SetOutput(io.Discard)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && strings.HasPrefix(entry.Name(), "palettegen-") && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestRotatedLogName(t *testing.T) {
	now := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	want := filepath.Join("logs", "palettegen-20240305-140709.log")
	if got := rotatedLogName(now); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestSetupLogging_AtLimitNotRotated(t *testing.T) {
	defer os.RemoveAll(logDir)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize), 0644); err != nil {
		t.Fatalf("Failed to write log file: %v", err)
	}

	logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()
	defer log.SetOutput(io.Discard)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected no rotation at exactly %d bytes, found %d files", maxLogSize, len(entries))
	}
}

func TestRun_DebugLogRecordsRun(t *testing.T) {
	defer os.RemoveAll(logDir)
	defer log.SetOutput(io.Discard)

	p := setup(t, header)
	var stdout, stderr bytes.Buffer
	if code := run(p.args("--debug"), &stdout, &stderr, false); code != exitOK {
		t.Fatalf("Expected exit 0, got %d, stderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("Debug log not written: %v", err)
	}
	for _, want := range []string{"palettegen started", "Config: input=" + p.input, "Converted 1 of 2 palettes", "Wrote " + p.tuple} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Debug log missing %q", want)
		}
	}
}
