// Command promexporter-demo runs a small instrumented HTTP service,
// exposing its request metrics on a Prometheus scrape endpoint.
package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/stephenhillier/promexporter"
	"github.com/stephenhillier/promexporter/cmdutil/service"
	"github.com/stephenhillier/promexporter/requestid"
)

type config struct {
	MetricsPath string `env:"METRICS_PATH,default=/metrics"`
}

func main() {
	var cfg config
	s := service.New(&cfg)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(promexporter.New(
		promexporter.WithAppName(s.App),
		promexporter.GroupPaths(),
		promexporter.FilterUnhandledPaths(),
		promexporter.WithExemplars(),
		promexporter.SkipPaths(cfg.MetricsPath),
	))

	r.Handle(cfg.MetricsPath, promexporter.Handler(
		promexporter.WithOpenMetrics(),
		promexporter.WithErrorLog(s.Logger),
	))
	r.Get("/hello/{name}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "hello, %s\n", chi.URLParam(r, "name"))
	})

	s.Add(service.HTTP(s.Logger, r))
	s.Run()
}
