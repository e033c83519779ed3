package logging

// Structured logging for ladderctl

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

// Logger provides structured logging
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	file    *os.File
	fileLog *log.Logger
	stdout  *log.Logger
	stderr  *log.Logger
	format  string // "text" or "json"
	logEvery int   // console sampling: 1 = every message, N = 1-in-N
	counter  int
}

// NewLogger creates a new logger with text format and no console sampling.
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	return NewLoggerWithOptions(level, logFile, "text", 1)
}

// NewLoggerWithOptions creates a logger with an explicit console format
// ("text" or "json", defaults to "text") and console sampling rate
// (logEvery <= 0 defaults to 1, meaning every message). Sampling only
// affects console output; the log file, if configured, always receives
// every message.
func NewLoggerWithOptions(level LogLevel, logFile, format string, logEvery int) (*Logger, error) {
	if format == "" {
		format = "text"
	}
	if logEvery <= 0 {
		logEvery = 1
	}

	l := &Logger{
		level:    level,
		stdout:   log.New(os.Stdout, "", 0),
		stderr:   log.New(os.Stderr, "", 0),
		format:   format,
		logEvery: logEvery,
	}

	if logFile != "" {
		file, err := os.Create(logFile)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		l.fileLog = log.New(file, "", log.LstdFlags)
	}

	return l, nil
}

// Close closes the logger and flushes all data
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.level >= LogLevelError {
		l.write(LogLevelError, fmt.Sprintf(format, v...), true)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		l.write(LogLevelInfo, fmt.Sprintf(format, v...), false)
	}
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	if l.level >= LogLevelVerbose {
		l.write(LogLevelVerbose, fmt.Sprintf(format, v...), false)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		l.write(LogLevelDebug, fmt.Sprintf(format, v...), false)
	}
}

// write renders msg per l.format and dispatches it to the file log (always)
// and the console (subject to sampling).
func (l *Logger) write(level LogLevel, msg string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rendered := l.render(level, msg)

	if l.fileLog != nil {
		l.fileLog.Println(rendered)
	}

	l.counter++
	if l.counter%l.logEvery != 0 {
		return
	}

	if isError {
		l.stderr.Println(rendered)
	} else if l.level >= LogLevelVerbose {
		l.stdout.Println(rendered)
	}
}

// render formats a message for either text or JSON console/file output.
func (l *Logger) render(level LogLevel, msg string) string {
	if l.format == "json" {
		entry := struct {
			Time    string `json:"time"`
			Level   string `json:"level"`
			Message string `json:"message"`
		}{
			Time:    time.Now().UTC().Format(time.RFC3339),
			Level:   levelLabel(level == LogLevelError),
			Message: msg,
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return msg
		}
		return string(data)
	}

	prefix := "INFO"
	switch level {
	case LogLevelError:
		prefix = "ERROR"
	case LogLevelVerbose:
		prefix = "VERBOSE"
	case LogLevelDebug:
		prefix = "DEBUG"
	}
	return prefix + ": " + msg
}

// levelLabel renders a textual level tag for JSON log entries.
func levelLabel(isError bool) string {
	if isError {
		return "error"
	}
	return "info"
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogScanWarning logs one of the core's silent-default warnings (a bad
// address, a capacity overflow, a scan that failed to converge within the
// P2 iteration budget) without interrupting the scan.
func (l *Logger) LogScanWarning(phase, detail string) {
	l.Error("scan warning [%s]: %s", phase, detail)
}

// LogLifecycleTransition logs a STOP/RUN/ERROR/RESET state change.
func (l *Logger) LogLifecycleTransition(from, to, reason string) {
	if reason != "" {
		l.Info("lifecycle %s -> %s (%s)", from, to, reason)
	} else {
		l.Info("lifecycle %s -> %s", from, to)
	}
}

// LogStartup logs controller startup information.
func (l *Logger) LogStartup(listenAddr, programPath, persistPath string) {
	l.Info("Starting ladderctl controller")
	l.Verbose("  Admin listen: %s", listenAddr)
	l.Verbose("  Program: %s", programPath)
	l.Verbose("  Persisted status: %s", persistPath)
}

// MultiWriter creates an io.Writer that writes to multiple writers
type MultiWriter struct {
	writers []io.Writer
}

// NewMultiWriter creates a new multi-writer
func NewMultiWriter(writers ...io.Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes to all writers
func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		n, err = w.Write(p)
		if err != nil {
			return n, err
		}
	}
	return len(p), nil
}
