// Package promexporter provides HTTP middleware for collecting Prometheus
// metrics about http servers, and a handler for exposing them.
//
// For each request the middleware records:
//
//	<prefix>_requests_total - counter of requests by method, path, status code, and app name
//	<prefix>_request_duration_seconds - histogram of request durations with the same labels
//	<prefix>_requests_in_progress - gauge of in-flight requests by method and app name
//
// with optional counters for request and response body sizes. The prefix
// defaults to "http".
//
// When path grouping is enabled and requests are routed by a chi.Router, the
// path label holds the matched route pattern rather than the raw URL path.
// For example, a request to GET /apps/1234 handled by the route
// /apps/{app_id} is labeled:
//
//	path="/apps/{app_id}"
//
// which keeps label cardinality bounded by the number of routes.
//
// Metric storage and exposition formatting are delegated entirely to
// prometheus/client_golang; Handler serves the accumulated state in the
// Prometheus text format (or OpenMetrics, see WithOpenMetrics).
package promexporter
