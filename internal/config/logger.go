package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the logger described by the log section.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	l := logrus.New()
	l.SetLevel(level)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l, nil
}
