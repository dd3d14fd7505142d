package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stephenhillier/promexporter/cmdutil"
)

// HTTP returns a standard HTTP server for the provided handler. The port is
// read from the environment (PORT, default 8080). The server is shut down
// gracefully when stopped.
func HTTP(l logrus.FieldLogger, h http.Handler) cmdutil.Server {
	var cfg httpConfig
	envdecode.MustDecode(&cfg)

	srv := &http.Server{
		Handler: h,
		Addr:    fmt.Sprintf(":%d", cfg.Port),
	}

	return httpServer(l, srv)
}

// listenHook allows tests to intercept the listener created for servers,
// e.g., to get the resolved address when the server's Addr is ":0".
var listenHook chan net.Listener

// httpServer adapts an http.Server to a cmdutil.Server.
func httpServer(l logrus.FieldLogger, srv *http.Server) cmdutil.Server {
	return cmdutil.ServerFuncs{
		RunFunc: func() error {
			l.WithFields(logrus.Fields{
				"at":   "binding",
				"addr": srv.Addr,
			}).Info()

			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return errors.Wrap(err, "listening to tcp addr")
			}
			defer ln.Close()

			if listenHook != nil {
				listenHook <- ln
			}

			return srv.Serve(ln)
		},
		StopFunc: func(error) { gracefulShutdown(l, srv) },
	}
}

func gracefulShutdown(l logrus.FieldLogger, s *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.WithField("at", "graceful-shutdown").Info()
	if err := s.Shutdown(ctx); err != nil {
		l.WithField("at", "graceful-shutdown").WithError(err).Warn()
		s.Close()
	}
}
