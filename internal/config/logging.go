package config

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger from the LogLevel and LogFormat
// settings. Unknown levels fall back to info.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
