package promexporter

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stephenhillier/promexporter/requestid"
)

// New returns an HTTP middleware which records request metrics and registers
// them with the configured registerer (prometheus.DefaultRegisterer unless
// WithRegisterer is given).
//
// Metric families are shared: a second middleware using the same prefix and
// registerer records into the same collectors.
//
// Panics in downstream handlers are counted with status code 500 and then
// propagate unchanged to the host server's handling.
func New(opts ...Option) func(http.Handler) http.Handler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	labelNames := []string{"method", "path", "status_code", "app_name"}
	for _, l := range o.labels {
		labelNames = append(labelNames, l.name)
	}

	requests := registerCounterVec(o.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: o.prefix + "_requests_total",
		Help: "Total HTTP requests by method, path and status code.",
	}, labelNames))

	duration := registerHistogramVec(o.registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    o.prefix + "_request_duration_seconds",
		Help:    "HTTP request duration in seconds by method, path and status code.",
		Buckets: o.buckets,
	}, labelNames))

	inProgress := registerGaugeVec(o.registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: o.prefix + "_requests_in_progress",
		Help: "In-flight HTTP requests by method.",
	}, []string{"method", "app_name"}))

	var responseBytes, requestBytes *prometheus.CounterVec
	if o.responseBodySize {
		responseBytes = registerCounterVec(o.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: o.prefix + "_response_body_bytes_total",
			Help: "Total HTTP response body bytes written.",
		}, labelNames))
	}
	if o.requestBodySize {
		requestBytes = registerCounterVec(o.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: o.prefix + "_request_body_bytes_total",
			Help: "Total HTTP request body bytes read by handlers.",
		}, labelNames))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := o.skipPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			inProg := inProgress.WithLabelValues(r.Method, o.appName)
			inProg.Inc()
			defer inProg.Dec()

			ww, ok := w.(middleware.WrapResponseWriter)
			if !ok {
				ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			}

			var body *countingReadCloser
			if requestBytes != nil && r.Body != nil {
				body = &countingReadCloser{rc: r.Body}
				r.Body = body
			}

			start := time.Now()
			panicked := true
			defer func() {
				dur := time.Since(start)

				// Route patterns are populated during routing, so the
				// matched pattern is only known after the handler ran.
				path := r.URL.Path
				if o.groupPaths || o.filterUnhandledPaths {
					pattern := routePattern(r)
					if pattern == "" && o.filterUnhandledPaths {
						return
					}
					if pattern != "" && o.groupPaths {
						path = pattern
					}
				}

				st := ww.Status()
				if panicked {
					st = http.StatusInternalServerError
				} else if st == 0 {
					// No Write or WriteHeader means the handler replied OK.
					st = http.StatusOK
				}

				values := make([]string, 0, len(labelNames))
				values = append(values, r.Method, path, strconv.Itoa(st), o.appName)
				for _, l := range o.labels {
					values = append(values, l.value(r))
				}

				var exemplar prometheus.Labels
				if o.exemplars {
					// Exemplar label sets are capped at 128 runes, so
					// oversized inbound ids are not usable.
					if id := requestid.FromContext(r.Context()); id != "" && len(id) <= 64 {
						exemplar = prometheus.Labels{"request_id": id}
					}
				}

				if exemplar != nil {
					requests.WithLabelValues(values...).(prometheus.ExemplarAdder).AddWithExemplar(1, exemplar)
					duration.WithLabelValues(values...).(prometheus.ExemplarObserver).ObserveWithExemplar(dur.Seconds(), exemplar)
				} else {
					requests.WithLabelValues(values...).Inc()
					duration.WithLabelValues(values...).Observe(dur.Seconds())
				}

				if responseBytes != nil {
					responseBytes.WithLabelValues(values...).Add(float64(ww.BytesWritten()))
				}
				if requestBytes != nil && body != nil {
					requestBytes.WithLabelValues(values...).Add(float64(body.n))
				}
			}()

			next.ServeHTTP(ww, r)
			panicked = false
		})
	}
}

// routePattern reconstructs the matched chi route pattern for r, e.g.
// /apps/{app_id}. Routers inject the pattern each of them used to match the
// request into the request context, so a sub-router mounted at /api that
// handles /users/{id} yields:
//
//	[]string{"/api/*", "/users/{id}"}
//
// which is joined into /api/users/{id}. It returns "" when the request was
// not routed by chi or did not match a route.
func routePattern(r *http.Request) string {
	ctx := r.Context()
	if ctx.Value(chi.RouteCtxKey) == nil {
		return ""
	}

	rtCtx := chi.RouteContext(ctx)
	if len(rtCtx.RoutePatterns) == 0 {
		return ""
	}

	var b strings.Builder
	for _, pattern := range rtCtx.RoutePatterns {
		pattern = strings.TrimSuffix(pattern, "/*")
		if pattern == "" {
			continue
		}
		b.WriteString(pattern)
	}

	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// countingReadCloser counts the request body bytes actually read by the
// downstream handler.
type countingReadCloser struct {
	rc io.ReadCloser
	n  int64
}

func (c *countingReadCloser) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReadCloser) Close() error {
	return c.rc.Close()
}

// registerCounterVec registers c with reg, reusing the collector already
// registered for the same family if there is one.
func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		return are.ExistingCollector.(*prometheus.CounterVec)
	}
	return c
}

func registerHistogramVec(reg prometheus.Registerer, h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := reg.Register(h); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		return are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return h
}

func registerGaugeVec(reg prometheus.Registerer, g *prometheus.GaugeVec) *prometheus.GaugeVec {
	if err := reg.Register(g); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		return are.ExistingCollector.(*prometheus.GaugeVec)
	}
	return g
}
