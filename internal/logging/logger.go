package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns the logger used by the exporters. Diagnostics go to stderr so
// they do not interleave with progress output on stdout.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	log.SetLevel(logrus.InfoLevel)
	return log
}
