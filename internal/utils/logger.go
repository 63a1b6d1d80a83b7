package utils

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableQuote:  true,
	})
	return l
}

// Configure sets the level (debug, info, warn, error) and the format (text or json).
func Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableQuote: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Logger() *logrus.Logger {
	return logger
}

func format(message string, args []interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}
	return message
}

func LogInfo(component, message string, args ...interface{}) {
	logger.WithField("component", component).Info(format(message, args))
}

func LogSuccess(component, message string, args ...interface{}) {
	logger.WithFields(logrus.Fields{
		"component": component,
		"outcome":   "success",
	}).Info(format(message, args))
}

func LogWarning(component, message string, args ...interface{}) {
	logger.WithField("component", component).Warn(format(message, args))
}

func LogError(component, message string, err error) {
	entry := logger.WithField("component", component)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

func LogDebug(component, message string, args ...interface{}) {
	logger.WithField("component", component).Debug(format(message, args))
}

func LogRequest(method, path, username string) {
	logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"user":   username,
	}).Info("request")
}

func LogResponse(path string, statusCode int, duration time.Duration) {
	entry := logger.WithFields(logrus.Fields{
		"path":     path,
		"status":   statusCode,
		"duration": duration,
	})

	switch {
	case statusCode >= 500:
		entry.Error("response")
	case statusCode >= 400:
		entry.Warn("response")
	default:
		entry.Info("response")
	}
}

func LogDB(operation, query string) {
	logger.WithField("operation", operation).Debug(query)
}
