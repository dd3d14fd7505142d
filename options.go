package promexporter

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option adjusts the behavior of the middleware returned by New.
type Option func(*options)

type options struct {
	appName              string
	prefix               string
	groupPaths           bool
	filterUnhandledPaths bool
	skipPaths            map[string]struct{}
	buckets              []float64
	registerer           prometheus.Registerer
	exemplars            bool
	labels               []label
	requestBodySize      bool
	responseBodySize     bool
}

// label is an extra label applied to every request metric. value is
// resolved once per request.
type label struct {
	name  string
	value func(*http.Request) string
}

func defaultOptions() options {
	return options{
		prefix:     "http",
		buckets:    prometheus.DefBuckets,
		registerer: prometheus.DefaultRegisterer,
	}
}

// WithAppName sets the value of the app_name label attached to every metric.
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithPrefix sets the prefix of the metric family names. The default is
// "http", producing e.g. http_requests_total.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// GroupPaths labels requests with the matched chi route pattern instead of
// the raw URL path, so /apps/1234 and /apps/5678 both count against
// /apps/{app_id}. Requests that did not match a route keep the raw path
// unless FilterUnhandledPaths is also set.
func GroupPaths() Option {
	return func(o *options) {
		o.groupPaths = true
	}
}

// FilterUnhandledPaths drops requests that did not match any route, keeping
// scans, typos, and other unroutable traffic from growing the path label set.
func FilterUnhandledPaths() Option {
	return func(o *options) {
		o.filterUnhandledPaths = true
	}
}

// SkipPaths excludes requests for the given URL paths from all metrics.
// Comparison is exact. Typically used for the metrics endpoint itself or
// health check routes.
func SkipPaths(paths ...string) Option {
	return func(o *options) {
		if o.skipPaths == nil {
			o.skipPaths = make(map[string]struct{}, len(paths))
		}
		for _, p := range paths {
			o.skipPaths[p] = struct{}{}
		}
	}
}

// WithBuckets sets the duration histogram buckets, in seconds. The default
// is prometheus.DefBuckets.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// WithRegisterer sets the registerer metrics are registered with. The
// default is prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// WithExemplars attaches a request_id exemplar to counter increments and
// histogram observations when the request carries an id (see the requestid
// package). Exemplars are only exposed to scrapers when the handler has
// OpenMetrics enabled.
func WithExemplars() Option {
	return func(o *options) {
		o.exemplars = true
	}
}

// WithLabel adds a label with a constant value to every request metric.
func WithLabel(name, value string) Option {
	return WithLabelFunc(name, func(*http.Request) string { return value })
}

// WithLabelFunc adds a label whose value is computed from each request.
// fn must be safe for concurrent use.
func WithLabelFunc(name string, fn func(*http.Request) string) Option {
	return func(o *options) {
		o.labels = append(o.labels, label{name: name, value: fn})
	}
}

// WithRequestBodySize enables a <prefix>_request_body_bytes_total counter
// tracking the number of request body bytes read by handlers.
func WithRequestBodySize() Option {
	return func(o *options) {
		o.requestBodySize = true
	}
}

// WithResponseBodySize enables a <prefix>_response_body_bytes_total counter
// tracking the number of response body bytes written.
func WithResponseBodySize() Option {
	return func(o *options) {
		o.responseBodySize = true
	}
}
