package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "palettegen.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes the std logger to logs/palettegen.log when debug is set, otherwise discards it
// An oversized log is renamed with a timestamp before a fresh one is opened
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := rotatedLogName(time.Now())
		if err := os.Rename(logPath, rotated); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rotate log file: %v\n", err)
		}
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.Printf("palettegen started, pid %d", os.Getpid())
	return logFile
}

// rotatedLogName is the path an oversized log is moved to
func rotatedLogName(now time.Time) string {
	return filepath.Join(logDir, "palettegen-"+now.Format("20060102-150405")+".log")
}
