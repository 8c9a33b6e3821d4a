package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	logger  = newLogger(os.Stderr)
	logFile *os.File
	mu      sync.Mutex
	isSetup bool
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return l
}

// SetupLogger redirects log output to logFilePath (stderr when empty).
// Debug mode lowers the level so DebugLog and LogInfo are written.
func SetupLogger(logFilePath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if isSetup {
		return nil
	}

	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		logger.SetOutput(f)
	}

	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.Debugf("--- pdiff debug log started at %s ---", time.Now().Format(time.RFC3339))

	isSetup = true
	return nil
}

// CloseLogger closes the log file and restores stderr output
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logger.Debugf("--- pdiff debug log closed at %s ---", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	isSetup = false
}

// SetOutput replaces the log destination. Used by tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// DebugLog logs a message if debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// LogImageSkipped logs an image excluded from the run
func LogImageSkipped(path string, err error) {
	logger.WithFields(logrus.Fields{
		"path":   path,
		"reason": err.Error(),
	}).Warn("image skipped")
}
