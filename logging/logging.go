package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	logger  = newConsoleLogger()
	logFile *os.File
	mu      sync.Mutex
	isSetup bool
	debug   bool
)

func newConsoleLogger() *log.Logger {
	l := log.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(log.InfoLevel)
	l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	return l
}

// SetupLogger sends log output to the given file in addition to stderr.
// An empty path keeps console-only logging. Debug enables DebugLog output.
func SetupLogger(logFilePath string, debugMode bool) error {
	mu.Lock()
	defer mu.Unlock()

	debug = debugMode
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}

	if isSetup || logFilePath == "" {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return errors.Wrapf(err, "failed to open log file %s", logFilePath)
	}

	logger.SetOutput(io.MultiWriter(os.Stderr, logFile))
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	logger.Infof("--- datasetprep log started at %s ---", time.Now().Format(time.RFC3339))

	isSetup = true
	return nil
}

// CloseLogger closes the log file and restores console logging
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logger.Infof("--- datasetprep log closed at %s ---", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		isSetup = false
		logger.SetOutput(os.Stderr)
	}
}

// SetOutput redirects all log output, mainly for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// DebugLog logs a message if debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	mu.Lock()
	enabled := debug
	mu.Unlock()

	if enabled {
		logger.Debugf(format, args...)
	}
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// LogImageProcessed logs the result of a per-file operation
func LogImageProcessed(stage, path string, success bool, errMsg string) {
	entry := logger.WithFields(log.Fields{
		"stage": stage,
		"path":  path,
	})
	if success {
		entry.Debug("processed")
	} else {
		entry.WithField("error", errMsg).Warn("skipped")
	}
}
