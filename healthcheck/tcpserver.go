// Package healthcheck answers liveness probes from TCP routers and load
// balancers.
package healthcheck

import (
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// TCPServer answers healthcheck requests from TCP routers, such as an ELB.
type TCPServer struct {
	logger logrus.FieldLogger
	addr   string
	ln     net.Listener
	probes prometheus.Counter
}

// NewTCPServer initializes a new health-check server. Probes are counted in
// a healthcheck_probes_total counter registered with reg.
func NewTCPServer(logger logrus.FieldLogger, reg prometheus.Registerer, addr string) *TCPServer {
	probes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "healthcheck_probes_total",
		Help: "Total healthcheck probes answered.",
	})
	if err := reg.Register(probes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			probes = are.ExistingCollector.(prometheus.Counter)
		} else {
			panic(err)
		}
	}

	return &TCPServer{
		logger: logger,
		probes: probes,
		addr:   addr,
	}
}

// Run listens on the configured address and responds to healthcheck
// requests.
//
// It implements the cmdutil.Server interface.
func (s *TCPServer) Run() error {
	if err := s.start(); err != nil {
		return err
	}

	return s.serve()
}

// Stop shuts down the TCPServer if it was already started.
//
// It implements the cmdutil.Server interface.
func (s *TCPServer) Stop(error) {
	if s.ln != nil {
		s.ln.Close()
	}
}

func (s *TCPServer) start() error {
	s.logger.WithFields(logrus.Fields{
		"at":   "bind",
		"addr": s.addr,
	}).Print()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.ln = ln
	return nil
}

func (s *TCPServer) serve() error {
	const retryDelay = 50 * time.Millisecond

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if e, ok := err.(net.Error); ok && e.Timeout() {
				s.logger.
					WithField("at", "accept").
					WithError(err).
					Errorf("retrying in %s", retryDelay)

				time.Sleep(retryDelay)
				continue
			}

			return err
		}

		go s.serveConn(conn)
	}
}

func (s *TCPServer) serveConn(conn net.Conn) {
	defer conn.Close()

	s.probes.Inc()

	if _, err := conn.Write([]byte("OK\n")); err != nil {
		s.logger.WithError(err).Error()
	}
}
