package tools

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorLogEntry is one recorded tool failure
type ErrorLogEntry struct {
	Timestamp string         `json:"timestamp"`
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Error     string         `json:"error"`
	Transport string         `json:"transport,omitempty"`
}

// ErrorLog appends tool failures to a JSONL file so they survive the
// session. Disabled unless LOG_TOOL_ERRORS=true.
type ErrorLog struct {
	enabled bool
	file    *os.File
	logger  *logrus.Logger
	mu      sync.Mutex
	path    string
}

var (
	globalErrorLog *ErrorLog
	errorLogOnce   sync.Once
)

// logRetentionDays is how long recorded errors are kept before rotation
// discards them
const logRetentionDays = 60

// InitErrorLog initialises the global tool error log. Safe to call more
// than once; only the first call takes effect.
func InitErrorLog(logger *logrus.Logger) error {
	var initErr error
	errorLogOnce.Do(func() {
		if os.Getenv("LOG_TOOL_ERRORS") != "true" {
			globalErrorLog = &ErrorLog{enabled: false, logger: logger}
			return
		}

		homeDir, err := os.UserHomeDir()
		if err != nil {
			initErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}

		logDir := filepath.Join(homeDir, ".heretto-mcp", "logs")
		if err := os.MkdirAll(logDir, 0700); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}

		path := filepath.Join(logDir, "tool-errors.log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = fmt.Errorf("failed to open tool error log: %w", err)
			return
		}

		globalErrorLog = &ErrorLog{
			enabled: true,
			file:    file,
			logger:  logger,
			path:    path,
		}

		// Rotate in the background so startup is not blocked on log IO
		go func() {
			if err := globalErrorLog.rotate(); err != nil {
				logger.WithError(err).Warn("Failed to rotate tool error log")
			}
		}()

		logger.Infof("Tool error logging enabled: %s", path)
	})

	return initErr
}

// GetErrorLog returns the global error log, or a disabled one when
// InitErrorLog has not run.
func GetErrorLog() *ErrorLog {
	if globalErrorLog == nil {
		return &ErrorLog{enabled: false}
	}
	return globalErrorLog
}

// Record writes one tool failure to the log file.
func (l *ErrorLog) Record(toolName string, args map[string]any, toolErr error, transport string) {
	if !l.enabled || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := ErrorLogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		ToolName:  toolName,
		Arguments: args,
		Error:     toolErr.Error(),
		Transport: transport,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		if l.logger != nil {
			l.logger.WithError(err).Error("Failed to marshal tool error entry")
		}
		return
	}

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		if l.logger != nil {
			l.logger.WithError(err).Error("Failed to write tool error entry")
		}
		return
	}
	_ = l.file.Sync()
}

// IsEnabled reports whether errors are being recorded
func (l *ErrorLog) IsEnabled() bool {
	return l.enabled
}

// Path returns the log file location
func (l *ErrorLog) Path() string {
	return l.path
}

// Close releases the log file handle.
func (l *ErrorLog) Close() error {
	if !l.enabled || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// rotate drops entries older than the retention window. Holds the mutex
// for the whole rewrite so Record cannot write to a closed file.
func (l *ErrorLog) rotate() error {
	if !l.enabled || l.path == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			return fmt.Errorf("failed to close log for rotation: %w", err)
		}
		l.file = nil
	}

	kept, err := l.freshEntries()
	if err != nil {
		_ = l.reopenLocked()
		return err
	}

	// Atomic replace so a crash mid-rotation cannot lose the log
	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(strings.Join(kept, "\n")+"\n"), 0600); err != nil {
		_ = l.reopenLocked()
		return fmt.Errorf("failed to write rotated log: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		_ = os.Remove(tmpPath)
		_ = l.reopenLocked()
		return fmt.Errorf("failed to replace log during rotation: %w", err)
	}

	return l.reopenLocked()
}

// freshEntries reads the log file and returns the lines still inside the
// retention window. Malformed lines are kept rather than dropped.
func (l *ErrorLog) freshEntries() ([]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, nil
	}
	defer func() { _ = file.Close() }()

	cutoff := time.Now().AddDate(0, 0, -logRetentionDays)

	var kept []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry ErrorLogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			kept = append(kept, line)
			continue
		}
		entryTime, err := time.Parse(time.RFC3339, entry.Timestamp)
		if err != nil || entryTime.After(cutoff) {
			kept = append(kept, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return kept, fmt.Errorf("error reading log during rotation: %w", err)
	}
	return kept, nil
}

// reopenLocked reopens the log file in append mode. Caller holds l.mu.
func (l *ErrorLog) reopenLocked() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to reopen log file: %w", err)
	}
	l.file = file
	return nil
}
