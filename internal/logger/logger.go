package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger. format is "text" or "json".
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format: '%s'", format)
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	return nil
}
