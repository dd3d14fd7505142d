package promexporter

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// A HandlerOption adjusts the behavior of the handler returned by Handler
// and HandlerFor.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	openMetrics bool
	errorLog    promhttp.Logger
}

// WithOpenMetrics enables OpenMetrics content negotiation. Scrapers that ask
// for the OpenMetrics format receive it, including any exemplars recorded by
// the middleware; everyone else gets the Prometheus text format.
func WithOpenMetrics() HandlerOption {
	return func(o *handlerOptions) {
		o.openMetrics = true
	}
}

// WithErrorLog sets the logger used to report errors encountered while
// gathering or rendering metrics. A logrus.FieldLogger satisfies the
// interface.
func WithErrorLog(l promhttp.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.errorLog = l
	}
}

// Handler returns an http.Handler exposing the default gatherer's metrics,
// typically mounted at /metrics.
func Handler(opts ...HandlerOption) http.Handler {
	return HandlerFor(prometheus.DefaultGatherer, opts...)
}

// HandlerFor returns an http.Handler exposing the given gatherer's metrics.
// Rendering, compression, and content negotiation are delegated to promhttp.
func HandlerFor(g prometheus.Gatherer, opts ...HandlerOption) http.Handler {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}

	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: o.openMetrics,
		ErrorLog:          o.errorLog,
	})
}
