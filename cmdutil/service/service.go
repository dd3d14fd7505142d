// Package service bootstraps standard services: env-driven configuration,
// logging, signal handling, and process management.
package service

import (
	"fmt"
	"syscall"

	"github.com/joeshaw/envdecode"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/stephenhillier/promexporter/cmdutil"
	"github.com/stephenhillier/promexporter/cmdutil/signals"
	"github.com/stephenhillier/promexporter/cmdutil/svclog"
	"github.com/stephenhillier/promexporter/healthcheck"
)

// Standard is a standard service.
type Standard struct {
	g run.Group

	App    string
	Deploy string
	Logger logrus.FieldLogger
}

// New returns a Standard service with logging, an optional TCP healthcheck
// server, and common signal handling.
//
// It calls envdecode.MustStrictDecode on the provided appConfig.
func New(appConfig interface{}) *Standard {
	var sc standardConfig
	envdecode.MustStrictDecode(&sc)
	if appConfig != nil {
		envdecode.MustStrictDecode(appConfig)
	}

	logger := svclog.NewLogger(sc.Logger)

	s := &Standard{
		App:    sc.Logger.AppName,
		Deploy: sc.Logger.Deploy,
		Logger: logger,
	}

	if sc.HealthPort != 0 {
		s.Add(healthcheck.NewTCPServer(logger, prometheus.DefaultRegisterer, fmt.Sprintf(":%d", sc.HealthPort)))
	}

	s.Add(signals.NewServer(logger, syscall.SIGINT, syscall.SIGTERM))

	return s
}

// Add adds cmdutil.Servers to be managed.
func (s *Standard) Add(svs ...cmdutil.Server) {
	for _, sv := range svs {
		s.g.Add(sv.Run, sv.Stop)
	}
}

// Run runs all standard and Added cmdutil.Servers.
//
// If the error returned by oklog/run.Run is non-nil, it is logged with
// s.Logger.Fatal.
func (s *Standard) Run() {
	if err := s.g.Run(); err != nil {
		s.Logger.WithError(err).Fatal()
	}
}
