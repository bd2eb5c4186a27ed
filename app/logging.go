package app

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
	logFileName = "particle3d.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes the standard logger to dir/particle3d.log when debug is set
// Without debug all log output is discarded so nothing reaches the terminal tcell owns
// An existing log over maxLogSize is renamed with a timestamp before a new one is opened
func setupLogging(dir string, debug bool) (*os.File, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("logging: %w", err)
	}

	path := filepath.Join(dir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("particle3d_%s.log", time.Now().Format("20060102_150405")))
		if err := os.Rename(path, rotated); err != nil {
			log.SetOutput(io.Discard)
			return nil, fmt.Errorf("logging: rotate: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("logging: %w", err)
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("=== particle3d started, pid %d ===", os.Getpid())
	return f, nil
}
