package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(os.Stdout)
	return l
}

// GetLogger returns the process logger
func GetLogger() *logrus.Logger {
	return logg
}

// InitLogger applies mode and level. Prod logs JSON.
func InitLogger(cfg *Config) {
	if cfg.IsProd() {
		logg.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logg.SetLevel(level)
	}
}

// LogError logs a failure with the module, function and context it happened in
func LogError(logger logrus.FieldLogger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
