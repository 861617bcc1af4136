// Package log proxies leveled logging to a single configured logrus backend.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the backend. Unknown level strings fall back to info.
func Setup(level string) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}
