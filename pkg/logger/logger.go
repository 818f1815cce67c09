package logger

import (
	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger.
func Setup(level string) {
	log.SetFormatter(&log.JSONFormatter{})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
