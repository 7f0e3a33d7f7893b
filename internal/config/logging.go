package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	logFilePrefix = "bookmarkd-"
	logFileSuffix = ".log"
	// sorts chronologically as a plain string
	logTimeLayout = "2006-01-02T15-04-05"
)

// SetupLogFile opens bookmarkd-<timestamp>.log in dir and prunes the directory
// down to the maxFiles newest bookmarkd logs. maxFiles <= 0 keeps every file.
// The caller closes the returned file.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, logFilePrefix+time.Now().Format(logTimeLayout)+logFileSuffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	if maxFiles > 0 {
		if err := cleanupOldLogs(dir, maxFiles); err != nil {
			// the new file is usable either way
			fmt.Fprintf(os.Stderr, "warning: prune old bookmarkd logs: %v\n", err)
		}
	}

	return f, nil
}

// logFiles lists the bookmarkd log files in dir, oldest first
func logFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), logFilePrefix) || !strings.HasSuffix(e.Name(), logFileSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// cleanupOldLogs removes the oldest log files beyond maxFiles. Every removal
// is attempted; the failures are joined.
func cleanupOldLogs(dir string, maxFiles int) error {
	names, err := logFiles(dir)
	if err != nil {
		return err
	}
	if len(names) <= maxFiles {
		return nil
	}

	var errs []error
	for _, name := range names[:len(names)-maxFiles] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
