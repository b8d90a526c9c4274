// Package metrics records resolution metrics behind a small interface.
//
// Components default to NoopRecorder, so call sites need no nil checks. To
// export metrics, hand a PrometheusRecorder to the resolver and serve its
// registry:
//
//	reg := prometheus.NewRegistry()
//	r := resolve.New(nil, runner, logger).WithRecorder(metrics.NewPrometheusRecorder(reg))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
