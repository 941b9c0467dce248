package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the process-wide logger: JSON lines on stdout with RFC3339
// timestamps.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// EmailFields keeps log lines about one message greppable by the same keys
// everywhere.
func EmailFields(subject, from string) logrus.Fields {
	return logrus.Fields{
		"subject": subject,
		"from":    from,
	}
}

// ModelCallFields records the outcome of one model call for monitoring.
func ModelCallFields(op string, ok bool, elapsed time.Duration, reason string) logrus.Fields {
	f := logrus.Fields{
		"op":          op,
		"ok":          ok,
		"duration_ms": elapsed.Milliseconds(),
	}
	if reason != "" {
		f["reason"] = reason
	}
	return f
}
