package service

import (
	"github.com/stephenhillier/promexporter/cmdutil/svclog"
)

// standardConfig is used when service.New is called.
type standardConfig struct {
	Logger svclog.Config

	// HealthPort, when set, enables a TCP healthcheck server for
	// answering router liveness probes.
	HealthPort int `env:"HEALTH_PORT"`
}

// httpConfig is used by HTTP and captures the listening port.
type httpConfig struct {
	Port int `env:"PORT,default=8080"`
}
