// Package observability exports geoshard engine metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := observability.NewCollector(reg)
//	if err != nil { ... }
//	eng, _ := geoshard.New(geoshard.WithMetricsCollector(collector))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package observability
