package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// ParseLevel maps a config string to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type Logger struct {
	mu    sync.Mutex
	file  *os.File
	out   io.Writer
	level Level
}

// NewLogger creates a timestamped log file under dir and mirrors every
// line to the console.
func NewLogger(dir string, level Level) (*Logger, error) {
	// Create logs directory if it doesn't exist
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("wagescraper_%s.log", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %v", err)
	}

	return &Logger{file: file, out: io.MultiWriter(file, os.Stdout), level: level}, nil
}

// NewWriterLogger logs to w only, without creating a log file.
func NewWriterLogger(w io.Writer, level Level) *Logger {
	return &Logger{out: w, level: level}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, "INFO", format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	// chromedp reports cookie events it cannot decode on every page load
	if strings.Contains(format, "could not unmarshal event") &&
		strings.Contains(fmt.Sprint(args...), "cookiePart") {
		return
	}
	l.log(LevelDebug, "DEBUG", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, "ERROR", format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(LevelError, "FATAL", format, args...)
	l.Close()
	os.Exit(1)
}

func (l *Logger) log(level Level, name string, format string, args ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	timestamp := time.Now().Format("2006/01/02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("%s: %s %s\n", name, timestamp, message)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, logLine)
}

func (l *Logger) Close() error {
	if l != nil && l.file != nil {
		return l.file.Close()
	}
	return nil
}
