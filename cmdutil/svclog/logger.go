// Package svclog provides logging facilities for standard services.
package svclog

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Config for logger.
type Config struct {
	AppName  string `env:"APP_NAME,required"`
	Deploy   string `env:"DEPLOY,default=production"`
	Instance string `env:"INSTANCE"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// NewLogger returns a new logger that includes app and deploy key/value
// pairs in each log line.
func NewLogger(cfg Config) logrus.FieldLogger {
	logger := logrus.WithFields(logrus.Fields{
		"app":    cfg.AppName,
		"deploy": cfg.Deploy,
	})
	if cfg.Instance != "" {
		logger = logger.WithField("instance", cfg.Instance)
	}

	if l, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(l)
	}
	return logger
}

type printfer interface {
	Printf(format string, args ...interface{})
}

// SampleLogger is a rate limited logger that samples logs per second.
type SampleLogger struct {
	logger  printfer
	limiter *rate.Limiter
}

// NewSampleLogger creates a rate limited logger that samples logs. Logs
// beyond the burst limit within the burst window are dropped.
func NewSampleLogger(l printfer, logsBurstLimit int, logBurstWindow time.Duration) *SampleLogger {
	limiter := rate.NewLimiter(rate.Every(logBurstWindow), logsBurstLimit)
	return &SampleLogger{
		logger:  l,
		limiter: limiter,
	}
}

func (l *SampleLogger) Printf(format string, args ...interface{}) {
	if l.limiter.Allow() {
		l.logger.Printf(format, args...)
	}
}
